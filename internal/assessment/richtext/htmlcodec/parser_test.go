package htmlcodec

import (
	"testing"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeserialize(t *testing.T) {
	text := rttypes.NewText

	tests := []struct {
		name string
		src  string
		want rttypes.Document
	}{
		{"empty string", "", rttypes.EmptyDocument()},
		{"whitespace only", " \n\t", rttypes.EmptyDocument()},
		{"empty paragraph", "<p></p>", rttypes.EmptyDocument()},
		{
			"paragraph with bold",
			"<p>Hello <strong>world</strong></p>",
			rttypes.Document{p(text("Hello "), text("world", rttypes.Bold))},
		},
		{"list coercion", "<ul><span>a</span></ul>", rttypes.Document{ul(li(text("a")))}},
		{"mark nesting", "<strong><em>x</em></strong>", rttypes.Document{p(text("x", rttypes.Bold, rttypes.Italic))}},
		{"mark on nested blocks", "<em><p>a</p><p>b</p></em>", rttypes.Document{p(text("a", rttypes.Italic)), p(text("b", rttypes.Italic))}},
		{"line break", "<p>a<br>b</p>", rttypes.Document{p(text("a\nb"))}},
		{"whitespace between blocks", "<p>one</p>\n  <p>two</p>\n", rttypes.Document{p(text("one")), p(text("two"))}},
		{
			"formatted list",
			"<ol>\n  <li>a</li>\n  <li>b</li>\n</ol>",
			rttypes.Document{ol(li(text("a")), li(text("b")))},
		},
		{"space inside paragraph kept", "<p> </p>", rttypes.Document{p(text(" "))}},
		{"comment ignored", "<!-- note --><p>x</p>", rttypes.Document{p(text("x"))}},
		{"unknown tag passes through", "<div><p>a</p><span>b</span></div>", rttypes.Document{p(text("a")), p(text("b"))}},
		{"entities", "<p>x &amp; y &lt;z&gt;</p>", rttypes.Document{p(text("x & y <z>"))}},
		{"plain text", "just text", rttypes.Document{p(text("just text"))}},
		{"orphan item", "<li>a</li><li>b</li>", rttypes.Document{ul(li(text("a")), li(text("b")))}},
		{"code block", "<pre>x<br>y</pre>", rttypes.Document{rttypes.NewElement(rttypes.CodeBlock, text("x\ny"))}},
		{"inline code", "<p>run <code>go test</code></p>", rttypes.Document{p(text("run "), text("go test", rttypes.Code))}},
		{
			"nested list",
			"<ul><li>a<ol><li>b</li></ol></li></ul>",
			rttypes.Document{ul(li(text("a"), ol(li(text("b")))))},
		},
		{"source newline is a space", "<p>line1\nline2</p>", rttypes.Document{p(text("line1 line2"))}},
		{"indented newline collapsed", "<p>a\n    <em>b</em>\n</p>", rttypes.Document{p(text("a "), text("b", rttypes.Italic), text(" "))}},
		{
			"pretty printed item",
			"<ul>\n  <li>\n    <p>a</p>\n  </li>\n</ul>",
			rttypes.Document{ul(li(p(text("a"))))},
		},
		{"space between item blocks kept", "<ul><li>a <ol><li>b</li></ol></li></ul>", rttypes.Document{ul(li(text("a "), ol(li(text("b")))))}},
		{"newline kept in pre", "<pre>a\n  b</pre>", rttypes.Document{rttypes.NewElement(rttypes.CodeBlock, text("a\n  b"))}},
		{"newline kept in marked pre", "<pre><code>a\nb</code></pre>", rttypes.Document{rttypes.NewElement(rttypes.CodeBlock, text("a\nb", rttypes.Code))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deserialize(tt.src))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, rttypes.EmptyDocument(), Load(nil))
	})

	t.Run("html bytes", func(t *testing.T) {
		assert.Equal(t, rttypes.Document{p(rttypes.NewText("x"))}, Load([]byte("<p>x</p>")))
	})

	t.Run("legacy json tree", func(t *testing.T) {
		doc := Load(`[{"type":"bulleted-list","children":[{"text":"a"}]}]`)
		assert.Equal(t, rttypes.Document{ul(li(rttypes.NewText("a")))}, doc)
	})

	t.Run("legacy json root object", func(t *testing.T) {
		doc := Load(`{"children":[{"text":"a","bold":true}]}`)
		assert.Equal(t, rttypes.Document{p(rttypes.NewText("a", rttypes.Bold))}, doc)
	})

	t.Run("json looking text", func(t *testing.T) {
		assert.Equal(t, rttypes.Document{p(rttypes.NewText("[1, 2]"))}, Load("[1, 2]"))
	})

	t.Run("json data is text", func(t *testing.T) {
		for _, src := range []string{
			`[{"a": 1, "b": 2}]`,
			`[{"n": 3, "arr": [1,2]}, {"n": 5}]`,
			`[{"type":"paragraph","children":[{"value":1}]}]`,
			`{"children":[{"id":1}]}`,
		} {
			assert.Equal(t, rttypes.Document{p(rttypes.NewText(src))}, Load(src), src)
		}
	})

	t.Run("legacy tags kept as marks", func(t *testing.T) {
		doc := Load("<p><b>Важно</b>: <i>t</i> <tt>x</tt></p><div>d</div>")
		assert.Equal(t, rttypes.Document{
			p(
				rttypes.NewText("Важно", rttypes.Bold),
				rttypes.NewText(": "),
				rttypes.NewText("t", rttypes.Italic),
				rttypes.NewText(" "),
				rttypes.NewText("x", rttypes.Code),
			),
			p(rttypes.NewText("d")),
		}, doc)
	})

	t.Run("legacy plain text", func(t *testing.T) {
		assert.Equal(t, rttypes.Document{p(rttypes.NewText("line 1\nline 2"))}, Load("line 1\nline 2"))
	})

	t.Run("typed document", func(t *testing.T) {
		doc := Load(rttypes.Document{rttypes.NewText("a")})
		assert.Equal(t, rttypes.Document{p(rttypes.NewText("a"))}, doc)
	})
}

func TestDocumentColumn(t *testing.T) {
	doc := rttypes.Document{p(rttypes.NewText("a", rttypes.Italic))}

	value, err := doc.Value()
	require.NoError(t, err)
	assert.Equal(t, "<p><em>a</em></p>", value)

	var scanned rttypes.Document
	require.NoError(t, scanned.Scan([]byte("<p><em>a</em></p>")))
	assert.Equal(t, doc, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, rttypes.EmptyDocument(), scanned)

	require.NoError(t, scanned.Scan("<p><b>a</b></p>"))
	assert.Equal(t, rttypes.Document{p(rttypes.NewText("a", rttypes.Bold))}, scanned)

	require.NoError(t, scanned.Scan(`[{"a": 1}]`))
	assert.Equal(t, rttypes.Document{p(rttypes.NewText(`[{"a": 1}]`))}, scanned)

	assert.Error(t, scanned.Scan(42))
}
