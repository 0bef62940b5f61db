// Package vocab holds the editor-internal class and id names shared by the
// selector checker and the HTML sanitizer, together with the fixed selector
// sets the checker consults before querying the document.
package vocab

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a vocabulary fails validation.
var ErrInvalid = errors.New("invalid vocabulary")

// Vocabulary is the shared contract between the checker and the sanitizer.
// Class fields hold bare class names (no leading dot).
type Vocabulary struct {
	// EditorID is the id of the editor's root element.
	EditorID string `yaml:"editor_id" json:"editor_id" validate:"required"`

	// Elements removed outright by the sanitizer.
	Remove        string `yaml:"remove" json:"remove" validate:"required"`
	OutputRemove  string `yaml:"output_remove" json:"output_remove" validate:"required"`
	EmojiMarker   string `yaml:"emoji_marker" json:"emoji_marker" validate:"required"`
	TableToolBar  string `yaml:"table_tool_bar" json:"table_tool_bar" validate:"required"`
	MathMarker    string `yaml:"math_marker" json:"math_marker" validate:"required"`
	MathText      string `yaml:"math_text" json:"math_text" validate:"required"`
	CursorOverlay string `yaml:"cursor_overlay" json:"cursor_overlay" validate:"required"`

	// State and structure markers rewritten by the sanitizer.
	Active               string `yaml:"active" json:"active" validate:"required"`
	EmojiMarkedText      string `yaml:"emoji_marked_text" json:"emoji_marked_text" validate:"required"`
	TaskListItemCheckbox string `yaml:"task_list_item_checkbox" json:"task_list_item_checkbox" validate:"required"`
	Math                 string `yaml:"math" json:"math" validate:"required"`
	Gray                 string `yaml:"gray" json:"gray" validate:"required"`
	Hide                 string `yaml:"hide" json:"hide" validate:"required"`
	Paragraph            string `yaml:"paragraph" json:"paragraph" validate:"required"`
	Line                 string `yaml:"line" json:"line" validate:"required"`
	HardLineBreak        string `yaml:"hard_line_break" json:"hard_line_break" validate:"required"`
	HTMLTag              string `yaml:"html_tag" json:"html_tag" validate:"required"`

	// HRRole is the data-role value of horizontal-rule placeholders.
	HRRole string `yaml:"hr_role" json:"hr_role" validate:"required"`
	// EmojiAttr is the attribute carrying the literal emoji glyph.
	EmojiAttr string `yaml:"emoji_attr" json:"emoji_attr" validate:"required,startswith=data-"`

	// ForcedRemoval selectors are always dropped from stylesheets.
	ForcedRemoval []string `yaml:"forced_removal" json:"forced_removal" validate:"dive,required"`
	// ForcedKeep selectors are always kept, matched or not.
	ForcedKeep []string `yaml:"forced_keep" json:"forced_keep" validate:"dive,required"`
}

// Default returns the built-in editor vocabulary.
func Default() *Vocabulary {
	return &Vocabulary{
		EditorID: "ag-editor-id",

		Remove:        "ag-remove",
		OutputRemove:  "ag-output-remove",
		EmojiMarker:   "ag-emoji-marker",
		TableToolBar:  "ag-table-tool-bar",
		MathMarker:    "ag-math-marker",
		MathText:      "ag-math-text",
		CursorOverlay: "CodeMirror-cursors",

		Active:               "ag-active",
		EmojiMarkedText:      "ag-emoji-marked-text",
		TaskListItemCheckbox: "ag-task-list-item-checkbox",
		Math:                 "ag-math",
		Gray:                 "ag-gray",
		Hide:                 "ag-hide",
		Paragraph:            "ag-paragraph",
		Line:                 "ag-line",
		HardLineBreak:        "ag-hard-line-break",
		HTMLTag:              "ag-html-tag",

		HRRole:    "hr",
		EmojiAttr: "data-emoji",

		ForcedRemoval: []string{
			".ag-image-marked-text::before",
			".ag-image-marked-text.ag-image-fail::before",
			".ag-hide",
			".ag-gray",
			".ag-warn",
		},
		ForcedKeep: []string{"*", "body", "html"},
	}
}

// Load reads a YAML vocabulary file. Fields absent from the file keep their
// default values. The result is validated before it is returned.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary %s: %w", path, err)
	}

	v := Default()
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing vocabulary %s: %w", path, err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports missing or malformed entries.
func (v *Vocabulary) Validate() error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrInvalid, e.Namespace(), e.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Class returns a class selector for name.
func Class(name string) string {
	return "." + name
}

// RemovalSelectors lists the selectors of editor-only artifacts that the
// sanitizer deletes before anything else.
func (v *Vocabulary) RemovalSelectors() []string {
	return []string{
		Class(v.Remove),
		Class(v.OutputRemove),
		Class(v.EmojiMarker),
		Class(v.TableToolBar),
		Class(v.MathMarker),
		Class(v.MathText),
		Class(v.CursorOverlay),
	}
}

// IsForcedRemoval reports whether selector is always dropped.
func (v *Vocabulary) IsForcedRemoval(selector string) bool {
	return contains(v.ForcedRemoval, selector)
}

// IsForcedKeep reports whether selector is always kept.
func (v *Vocabulary) IsForcedKeep(selector string) bool {
	return contains(v.ForcedKeep, selector)
}

func contains(set []string, s string) bool {
	for _, item := range set {
		if item == s {
			return true
		}
	}
	return false
}
