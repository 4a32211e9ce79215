package htmlcodec

import (
	"strings"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"golang.org/x/net/html"
)

var blockTags = map[rttypes.BlockKind]string{
	rttypes.Paragraph:    "p",
	rttypes.CodeBlock:    "pre",
	rttypes.BulletedList: "ul",
	rttypes.NumberedList: "ol",
	rttypes.ListItem:     "li",
}

var markTags = map[rttypes.Mark]string{
	rttypes.Bold:   "strong",
	rttypes.Italic: "em",
	rttypes.Code:   "code",
}

// Serialize переводит узлы в HTML. Пустые (nil) узлы дают пустую строку,
// элементы неизвестного вида разворачиваются в своих детей.
func Serialize(nodes ...rttypes.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeNode(&b, n)
	}
	return b.String()
}

// SerializeDocument - сериализация документа при сохранении.
func SerializeDocument(doc rttypes.Document) string {
	return Serialize(doc...)
}

func writeNode(b *strings.Builder, n rttypes.Node) {
	switch v := n.(type) {
	case rttypes.Text:
		writeText(b, v)
	case *rttypes.Text:
		if v != nil {
			writeText(b, *v)
		}
	case rttypes.Element:
		writeElement(b, v)
	case *rttypes.Element:
		if v != nil {
			writeElement(b, *v)
		}
	}
}

func writeElement(b *strings.Builder, el rttypes.Element) {
	tag, ok := blockTags[el.Kind]
	if ok {
		b.WriteString("<" + tag + ">")
	}
	for _, c := range el.Children {
		writeNode(b, c)
	}
	if ok {
		b.WriteString("</" + tag + ">")
	}
}

// writeText экранирует текст и оборачивает его в теги разметки: code внутри, strong снаружи.
func writeText(b *strings.Builder, t rttypes.Text) {
	for _, m := range rttypes.AllMarks {
		if t.Has(m) {
			b.WriteString("<" + markTags[m] + ">")
		}
	}

	lines := strings.Split(t.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br>")
		}
		b.WriteString(html.EscapeString(line))
	}

	for i := len(rttypes.AllMarks) - 1; i >= 0; i-- {
		if m := rttypes.AllMarks[i]; t.Has(m) {
			b.WriteString("</" + markTags[m] + ">")
		}
	}
}
