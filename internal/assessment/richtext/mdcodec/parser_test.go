package mdcodec

import (
	"testing"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"github.com/stretchr/testify/assert"
)

var text = rttypes.NewText

func el(kind rttypes.BlockKind) func(...rttypes.Node) rttypes.Element {
	return func(children ...rttypes.Node) rttypes.Element {
		return rttypes.NewElement(kind, children...)
	}
}

var (
	p    = el(rttypes.Paragraph)
	li   = el(rttypes.ListItem)
	ul   = el(rttypes.BulletedList)
	ol   = el(rttypes.NumberedList)
	code = el(rttypes.CodeBlock)
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want rttypes.Document
	}{
		{"empty", "", rttypes.Document{p(text(""))}},
		{"marks", "Hello **world** and *it* `x`", rttypes.Document{p(
			text("Hello "),
			text("world", rttypes.Bold),
			text(" and "),
			text("it", rttypes.Italic),
			text(" "),
			text("x", rttypes.Code),
		)}},
		{"bold italic", "***both***", rttypes.Document{p(text("both", rttypes.Bold, rttypes.Italic))}},
		{"soft break", "a\nb", rttypes.Document{p(text("a b"))}},
		{"hard break", "a  \nb", rttypes.Document{p(text("a\nb"))}},
		{"entities", "2 &lt; 3", rttypes.Document{p(text("2 < 3"))}},
		{"backslash escapes", `a \* b \_c\_ \[x\] 1\. \\`, rttypes.Document{p(text(`a * b _c_ [x] 1. \`))}},
		{"escaped ampersand", `\&amp; &#1090;`, rttypes.Document{p(text("&amp; т"))}},
		{"escaped list marker", `\- x`, rttypes.Document{p(text("- x"))}},
		{"heading", "# Title\n\ntext", rttypes.Document{p(text("Title", rttypes.Bold)), p(text("text"))}},
		{"bullets", "- a\n- b\n", rttypes.Document{ul(li(text("a")), li(text("b")))}},
		{"nested", "1. a\n   - b\n", rttypes.Document{ol(li(text("a"), ul(li(text("b")))))}},
		{"code block", "```go\nx := 1\ny\n```\n", rttypes.Document{code(text("x := 1\ny"))}},
		{"link keeps text", "[site](https://example.com)", rttypes.Document{p(text("site"))}},
		{"quote unwrapped", "> q", rttypes.Document{p(text("q"))}},
		{"raw html dropped", "<script>alert(1)</script>", rttypes.Document{p(text(""))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse([]byte(tt.src)))
		})
	}
}
