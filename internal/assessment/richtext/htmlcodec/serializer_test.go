package htmlcodec

import (
	"testing"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"github.com/stretchr/testify/assert"
)

func p(children ...rttypes.Node) rttypes.Element {
	return rttypes.NewElement(rttypes.Paragraph, children...)
}

func li(children ...rttypes.Node) rttypes.Element {
	return rttypes.NewElement(rttypes.ListItem, children...)
}

func ul(children ...rttypes.Node) rttypes.Element {
	return rttypes.NewElement(rttypes.BulletedList, children...)
}

func ol(children ...rttypes.Node) rttypes.Element {
	return rttypes.NewElement(rttypes.NumberedList, children...)
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name  string
		nodes []rttypes.Node
		want  string
	}{
		{"nothing", nil, ""},
		{"nil node", []rttypes.Node{nil}, ""},
		{"empty document", rttypes.EmptyDocument(), "<p></p>"},
		{
			"paragraph with bold",
			[]rttypes.Node{p(rttypes.NewText("Hello "), rttypes.NewText("world", rttypes.Bold))},
			"<p>Hello <strong>world</strong></p>",
		},
		{
			"mark nesting order",
			[]rttypes.Node{rttypes.NewText("x", rttypes.Code, rttypes.Bold, rttypes.Italic)},
			"<strong><em><code>x</code></em></strong>",
		},
		{"escaping", []rttypes.Node{rttypes.NewText(`<a href="x"> & b`)}, "&lt;a href=&#34;x&#34;&gt; &amp; b"},
		{"line breaks", []rttypes.Node{rttypes.NewText("a\nb\n", rttypes.Italic)}, "<em>a<br>b<br></em>"},
		{
			"lists",
			[]rttypes.Node{ul(li(rttypes.NewText("a")), li(rttypes.NewText("b"), ol(li(rttypes.NewText("c")))))},
			"<ul><li>a</li><li>b<ol><li>c</li></ol></li></ul>",
		},
		{"code block", []rttypes.Node{rttypes.NewElement(rttypes.CodeBlock, rttypes.NewText("x := 1"))}, "<pre>x := 1</pre>"},
		{"unknown kind unwrapped", []rttypes.Node{rttypes.NewElement("quote", p(rttypes.NewText("q")))}, "<p>q</p>"},
		{"pointer nodes", []rttypes.Node{&rttypes.Element{Kind: rttypes.Paragraph, Children: []rttypes.Node{&rttypes.Text{Text: "x"}}}}, "<p>x</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serialize(tt.nodes...))
		})
	}
}
