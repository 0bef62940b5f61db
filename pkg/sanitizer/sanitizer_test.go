package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/htmlsnap/pkg/vocab"
)

func sanitize(t *testing.T, root string) *Result {
	t.Helper()
	res, err := New(nil).Sanitize(root)
	require.NoError(t, err)
	return res
}

func TestSanitize_RemovesEditorArtifacts(t *testing.T) {
	root := `<div id="ag-editor-id">` +
		`<span class="ag-remove">x</span>` +
		`<div class="ag-output-remove">x</div>` +
		`<span class="ag-emoji-marker">:</span>` +
		`<div class="ag-table-tool-bar"><button>+</button></div>` +
		`<span class="ag-math-marker">$</span>` +
		`<span class="ag-math-text">x^2</span>` +
		`<div class="CodeMirror-cursors"></div>` +
		`<p>kept</p></div>`

	res := sanitize(t, root)
	assert.Equal(t, `<div id="ag-editor-id"><p>kept</p></div>`, res.Content)
	assert.Equal(t, 7, res.Stats.TotalElementsRemoved())
	assert.Equal(t, 4, res.Stats.ElementsRemoved["span"])
	assert.Equal(t, 3, res.Stats.ElementsRemoved["div"])
}

func TestSanitize_ClearsActive(t *testing.T) {
	res := sanitize(t, `<div><p class="ag-paragraph ag-active">a</p><span class="ag-active">b</span></div>`)
	assert.NotContains(t, res.Content, "ag-active")
	assert.Contains(t, res.Content, `<p class="ag-paragraph">a</p>`)
	assert.Equal(t, 2, res.Stats.ActiveCleared)
}

func TestSanitize_ReplacesRulePlaceholders(t *testing.T) {
	res := sanitize(t, `<div><p data-role="hr"><span>---</span></p></div>`)
	assert.Equal(t, `<div><hr/></div>`, res.Content)
	assert.Equal(t, 1, res.Stats.RulesReplaced)
}

func TestSanitize_RestoresEmoji(t *testing.T) {
	t.Run("replaces shortcode with glyph", func(t *testing.T) {
		res := sanitize(t, `<p><span class="ag-emoji-marked-text" data-emoji="🙂">smile</span></p>`)
		assert.Equal(t, `<p><span class="ag-emoji-marked-text" data-emoji="🙂">🙂</span></p>`, res.Content)
		assert.Equal(t, 1, res.Stats.EmojisRestored)
	})

	t.Run("missing attribute leaves text and warns", func(t *testing.T) {
		res := sanitize(t, `<p><span class="ag-emoji-marked-text">smile</span></p>`)
		assert.Contains(t, res.Content, ">smile<")
		require.True(t, res.HasWarnings())
		assert.Equal(t, "transform", res.Warnings[0].Phase)
	})
}

func TestSanitize_DisablesTaskCheckboxes(t *testing.T) {
	res := sanitize(t, `<ul><li><input type="checkbox" class="ag-task-list-item-checkbox" checked=""/>done</li></ul>`)
	assert.Contains(t, res.Content, `disabled="disabled"`)
	assert.Equal(t, 1, res.Stats.CheckboxesDisabled)
}

func TestSanitize_HidesGrayMath(t *testing.T) {
	res := sanitize(t, `<p><span class="ag-math ag-gray">a</span><span class="ag-math">b</span></p>`)
	assert.Equal(t, `<p><span class="ag-math ag-hide">a</span><span class="ag-math">b</span></p>`, res.Content)
	assert.Equal(t, 1, res.Stats.MathHidden)
}

func TestSanitize_LineBreaks(t *testing.T) {
	t.Run("soft and hard breaks", func(t *testing.T) {
		root := `<p class="ag-paragraph">` +
			`<span class="ag-line">one</span>` +
			`<span class="ag-line"><span class="ag-hard-line-break">two</span></span>` +
			`<span class="ag-line">three</span></p>`

		res := sanitize(t, root)
		want := `<p class="ag-paragraph">` +
			"<span>one<span>\u00a0</span></span>" +
			`<span><span>two<br/></span></span>` +
			`<span>three</span></p>`
		assert.Equal(t, want, res.Content)
		assert.Equal(t, 1, res.Stats.SoftBreaks)
		assert.Equal(t, 1, res.Stats.HardBreaks)
	})

	t.Run("marker on the segment itself", func(t *testing.T) {
		root := `<p class="ag-paragraph"><span class="ag-line ag-hard-line-break">a</span><span class="ag-line">b</span></p>`
		res := sanitize(t, root)
		assert.Contains(t, res.Content, "a<br/></span>")
		assert.Equal(t, 1, res.Stats.HardBreaks)
	})

	t.Run("single segment gets nothing", func(t *testing.T) {
		res := sanitize(t, `<p class="ag-paragraph"><span class="ag-line">only</span></p>`)
		assert.Equal(t, `<p class="ag-paragraph"><span>only</span></p>`, res.Content)
		assert.Zero(t, res.Stats.SoftBreaks+res.Stats.HardBreaks)
	})

	t.Run("other paragraphs untouched", func(t *testing.T) {
		res := sanitize(t, `<p><span class="ag-line">a</span><span class="ag-line">b</span></p>`)
		assert.NotContains(t, res.Content, "\u00a0")
	})
}

func TestSanitize_Passthrough(t *testing.T) {
	tests := []struct {
		name string
		root string
		want string
	}{
		{
			name: "markup is unescaped",
			root: `<p><span class="ag-html-tag">&lt;b&gt;hi&lt;/b&gt;</span></p>`,
			want: `<p><b>hi</b></p>`,
		},
		{
			name: "attributes survive",
			root: `<p><span class="ag-html-tag">&lt;a href="x"&gt;</span></p>`,
			want: `<p><a href="x"></p>`,
		},
		{
			name: "script stays escaped",
			root: `<p><span class="ag-html-tag">&lt;script&gt;alert(1)&lt;/script&gt;</span></p>`,
			want: `<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>`,
		},
		{
			name: "closing style stays escaped",
			root: `<p><span class="ag-html-tag">&lt;/STYLE&gt;</span></p>`,
			want: `<p>&lt;/STYLE&gt;</p>`,
		},
		{
			name: "nested script stays escaped",
			root: `<p><span class="ag-html-tag">&lt;b&gt;&lt;script&gt;alert(1)&lt;/script&gt;&lt;/b&gt;</span></p>`,
			want: `<p>&lt;b&gt;&lt;script&gt;alert(1)&lt;/script&gt;&lt;/b&gt;</p>`,
		},
		{
			name: "numeric references are checked after unescaping",
			root: `<p><span class="ag-html-tag">&lt;i&gt;&amp;#60;script&lt;/i&gt;</span></p>`,
			want: `<p><i>&#60;script</i></p>`,
		},
		{
			name: "tag name must match exactly",
			root: `<p><span class="ag-html-tag">&lt;subscript&gt;</span></p>`,
			want: `<p><subscript></p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(t, tt.root).Content)
		})
	}
}

func TestSanitize_PassthroughStats(t *testing.T) {
	res := sanitize(t, `<p><span class="ag-html-tag">&lt;b&gt;</span><span class="ag-html-tag">&lt;title&gt;</span></p>`)
	assert.Equal(t, 1, res.Stats.PassthroughUnescaped)
	assert.Equal(t, 1, res.Stats.PassthroughEscaped)
}

func TestSanitize_CustomVocabulary(t *testing.T) {
	v := vocab.Default()
	v.Remove = "editor-only"
	v.HTMLTag = "raw-html"

	res, err := New(v).Sanitize(`<div><i class="editor-only">x</i><span class="raw-html">&lt;u&gt;</span></div>`)
	require.NoError(t, err)
	assert.Equal(t, `<div><u></div>`, res.Content)
}

func TestSanitize_Sizes(t *testing.T) {
	root := `<div><span class="ag-remove">` + strings.Repeat("x", 100) + `</span></div>`
	res := sanitize(t, root)
	assert.Equal(t, len(root), res.Stats.InputBytes)
	assert.Equal(t, len(res.Content), res.Stats.OutputBytes)
	assert.Less(t, res.Stats.OutputBytes, res.Stats.InputBytes)
}

func TestHasRawTextTag(t *testing.T) {
	assert.True(t, hasRawTextTag(`<script src="x">`))
	assert.True(t, hasRawTextTag(" </ title>"))
	assert.True(t, hasRawTextTag("<b><STYLE>p{}</STYLE></b>"))
	assert.False(t, hasRawTextTag("<b>script</b>"))
	assert.False(t, hasRawTextTag("<subscript>"))
	assert.False(t, hasRawTextTag("plain text"))
}
