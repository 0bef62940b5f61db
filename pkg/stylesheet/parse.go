package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
)

// Kind distinguishes qualified rules from at-rules.
type Kind int

const (
	// QualifiedRule is a selector list followed by a declaration block.
	QualifiedRule Kind = iota
	// AtRule is an @-prefixed rule, with or without a block.
	AtRule
)

// Rule is a stylesheet node.
//
// Declaration blocks are kept as raw text, so a rule that is not rewritten
// serializes back to what was parsed (comments aside).
type Rule struct {
	Kind Kind
	// Name is the at-rule keyword including "@". Empty for qualified rules.
	Name string
	// Prelude is the selector list of a qualified rule or the condition of an
	// at-rule.
	Prelude   string
	Selectors []string
	// Block is the raw text between the braces. Unused when Rules is set.
	Block    string
	HasBlock bool
	// Rules holds the children of a conditional group rule such as @media.
	Rules []*Rule
}

// Sheet is a parsed stylesheet.
type Sheet struct {
	Rules []*Rule
}

// ErrUnexpectedEOF is returned when a rule prelude is not followed by a block.
var ErrUnexpectedEOF = errors.New("unexpected end of stylesheet")

// Parse parses stylesheet text into an AST. Unknown at-rules and odd
// declarations are accepted as is; only structural breakage is an error.
func Parse(text string) (*Sheet, error) {
	p := &sheetParser{l: tcss.NewLexer(parse.NewInputString(text))}
	rules, err := p.rules(false)
	if err != nil {
		return nil, fmt.Errorf("parsing stylesheet: %w", err)
	}
	return &Sheet{Rules: rules}, nil
}

type token struct {
	tt   tcss.TokenType
	data string
}

type sheetParser struct {
	l    *tcss.Lexer
	peek *token
}

func (p *sheetParser) next() token {
	if p.peek != nil {
		t := *p.peek
		p.peek = nil
		return t
	}
	for {
		tt, data := p.l.Next()
		// Comments are not part of the AST; important ones are restored
		// separately from the raw text.
		if tt == tcss.CommentToken {
			continue
		}
		return token{tt: tt, data: string(data)}
	}
}

func (p *sheetParser) unread(t token) {
	p.peek = &t
}

// rules consumes a rule list, either the top level or the body of a group
// rule when nested is set.
func (p *sheetParser) rules(nested bool) ([]*Rule, error) {
	var rules []*Rule
	for {
		t := p.next()
		switch t.tt {
		case tcss.ErrorToken:
			return rules, p.lexErr()
		case tcss.WhitespaceToken, tcss.CDOToken, tcss.CDCToken, tcss.SemicolonToken:
			continue
		case tcss.RightBraceToken:
			if nested {
				return rules, nil
			}
			return nil, errors.New("unmatched }")
		case tcss.AtKeywordToken:
			rule, err := p.atRule(t.data)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		default:
			p.unread(t)
			rule, err := p.qualifiedRule()
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}
}

func (p *sheetParser) qualifiedRule() (*Rule, error) {
	prelude, opened, err := p.prelude()
	if err != nil {
		return nil, err
	}
	if !opened {
		return nil, fmt.Errorf("%w after %q", ErrUnexpectedEOF, prelude)
	}
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	return &Rule{
		Kind:      QualifiedRule,
		Prelude:   prelude,
		Selectors: splitSelectors(prelude),
		Block:     block,
		HasBlock:  true,
	}, nil
}

func (p *sheetParser) atRule(name string) (*Rule, error) {
	rule := &Rule{Kind: AtRule, Name: name}

	var sb strings.Builder
	depth := 0
	for {
		t := p.next()
		switch t.tt {
		case tcss.ErrorToken:
			if err := p.lexErr(); err != nil {
				return nil, err
			}
			rule.Prelude = strings.TrimSpace(sb.String())
			return rule, nil
		case tcss.SemicolonToken:
			if depth == 0 {
				rule.Prelude = strings.TrimSpace(sb.String())
				return rule, nil
			}
		case tcss.LeftBraceToken:
			if depth == 0 {
				rule.Prelude = strings.TrimSpace(sb.String())
				rule.HasBlock = true
				if isMedia(rule) {
					children, err := p.rules(true)
					if err != nil {
						return nil, err
					}
					rule.Rules = children
					return rule, nil
				}
				block, err := p.block()
				if err != nil {
					return nil, err
				}
				rule.Block = block
				return rule, nil
			}
		case tcss.RightBraceToken:
			if depth == 0 {
				// The enclosing block closes; the statement ends here.
				p.unread(t)
				rule.Prelude = strings.TrimSpace(sb.String())
				return rule, nil
			}
		}
		depth = max(0, depth+nesting(t.tt))
		sb.WriteString(t.data)
	}
}

// prelude reads up to the opening brace of a qualified rule. opened is false
// when the input ended first.
func (p *sheetParser) prelude() (string, bool, error) {
	var sb strings.Builder
	depth := 0
	for {
		t := p.next()
		switch t.tt {
		case tcss.ErrorToken:
			return strings.TrimSpace(sb.String()), false, p.lexErr()
		case tcss.LeftBraceToken:
			if depth == 0 {
				return strings.TrimSpace(sb.String()), true, nil
			}
		}
		depth = max(0, depth+nesting(t.tt))
		sb.WriteString(t.data)
	}
}

// block reads the raw text up to the matching closing brace. A block left
// open at the end of input is closed implicitly, as browsers do.
func (p *sheetParser) block() (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		t := p.next()
		switch t.tt {
		case tcss.ErrorToken:
			return sb.String(), p.lexErr()
		case tcss.RightBraceToken:
			if depth == 0 {
				return sb.String(), nil
			}
		}
		depth = max(0, depth+nesting(t.tt))
		sb.WriteString(t.data)
	}
}

func (p *sheetParser) lexErr() error {
	if err := p.l.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func nesting(tt tcss.TokenType) int {
	switch tt {
	case tcss.LeftBraceToken, tcss.LeftParenthesisToken, tcss.LeftBracketToken, tcss.FunctionToken:
		return 1
	case tcss.RightBraceToken, tcss.RightParenthesisToken, tcss.RightBracketToken:
		return -1
	}
	return 0
}

// Serialize renders an AST back to stylesheet text, one top-level rule per
// line.
func Serialize(sheet *Sheet) string {
	if sheet == nil {
		return ""
	}
	var sb strings.Builder
	writeRules(&sb, sheet.Rules)
	return sb.String()
}

func writeRules(sb *strings.Builder, rules []*Rule) {
	for i, rule := range rules {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeRule(sb, rule)
	}
}

func writeRule(sb *strings.Builder, rule *Rule) {
	if rule.Kind == AtRule {
		sb.WriteString(rule.Name)
		if rule.Prelude != "" {
			sb.WriteByte(' ')
			sb.WriteString(rule.Prelude)
		}
		if !rule.HasBlock {
			sb.WriteByte(';')
			return
		}
		sb.WriteByte(' ')
	} else {
		sb.WriteString(rule.Prelude)
		sb.WriteByte(' ')
	}

	sb.WriteByte('{')
	if isMedia(rule) {
		sb.WriteByte('\n')
		writeRules(sb, rule.Rules)
		sb.WriteString("\n}")
		return
	}
	sb.WriteString(rule.Block)
	sb.WriteByte('}')
}

var importantCommentPattern = regexp.MustCompile(`/\*![\s\S]*?\*/\n*`)

// ImportantComments returns the /*! ... */ comments of raw stylesheet text in
// source order. The AST round trip drops comments, so they are collected from
// the raw text before parsing.
func ImportantComments(raw string) []string {
	var comments []string
	l := tcss.NewLexer(parse.NewInputString(raw))
	for {
		tt, data := l.Next()
		switch tt {
		case tcss.ErrorToken:
			return comments
		case tcss.CommentToken:
			if strings.HasPrefix(string(data), "/*!") {
				comments = append(comments, string(data))
			}
		}
	}
}

// RestoreImportantComments hoists comments, and any important comments still
// present in css, to the top of css. Duplicates are emitted once, in
// first-seen order.
func RestoreImportantComments(css string, comments []string) string {
	seen := make(map[string]bool)
	var hoisted []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		hoisted = append(hoisted, c)
	}

	for _, c := range comments {
		add(c)
	}
	cleaned := importantCommentPattern.ReplaceAllStringFunc(css, func(m string) string {
		add(m)
		return ""
	})

	if len(hoisted) == 0 {
		return cleaned
	}
	return strings.Join(hoisted, "\n") + "\n" + cleaned
}
