// Пакет mdcodec разбирает Markdown в rich-text документ.
//
// Поддерживается то, что выражается моделью документа: параграфы, списки, блоки кода,
// жирный, курсив и inline-код. Заголовки становятся жирными параграфами, цитаты
// разворачиваются, от ссылок и изображений остается текст. Сырой HTML пропускается.
package mdcodec

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// Parse возвращает нормализованный документ. Пустой ввод дает пустой документ.
func Parse(src []byte) rttypes.Document {
	root := goldmark.DefaultParser().Parse(gmtext.NewReader(src))
	return richtext.Normalize(rttypes.Document(blocks(root, src)))
}

func blocks(n ast.Node, src []byte) []rttypes.Node {
	var res []rttypes.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		res = append(res, block(c, src)...)
	}
	return res
}

func block(n ast.Node, src []byte) []rttypes.Node {
	switch v := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return []rttypes.Node{rttypes.Element{Kind: rttypes.Paragraph, Children: inlines(n, src, rttypes.Marks{})}}
	case *ast.Heading:
		return []rttypes.Node{rttypes.Element{Kind: rttypes.Paragraph, Children: inlines(n, src, rttypes.Marks{Bold: true})}}
	case *ast.List:
		kind := rttypes.BulletedList
		if v.IsOrdered() {
			kind = rttypes.NumberedList
		}
		return []rttypes.Node{rttypes.Element{Kind: kind, Children: blocks(n, src)}}
	case *ast.ListItem:
		return []rttypes.Node{rttypes.Element{Kind: rttypes.ListItem, Children: itemChildren(n, src)}}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := strings.TrimSuffix(lines(n, src), "\n")
		return []rttypes.Node{rttypes.Element{Kind: rttypes.CodeBlock, Children: []rttypes.Node{rttypes.Text{Text: code}}}}
	case *ast.Blockquote:
		return blocks(n, src)
	}
	return nil
}

// itemChildren поднимает текст параграфов элемента списка до листьев,
// несколько параграфов разделяются переводом строки.
func itemChildren(n ast.Node, src []byte) []rttypes.Node {
	var res []rttypes.Node
	inText := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if inText {
				res = append(res, rttypes.Text{Text: "\n"})
			}
			res = append(res, inlines(c, src, rttypes.Marks{})...)
			inText = true
		default:
			res = append(res, block(c, src)...)
			inText = false
		}
	}
	return res
}

func inlines(n ast.Node, src []byte, marks rttypes.Marks) []rttypes.Node {
	var res []rttypes.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			s := textValue(v.Segment.Value(src))
			switch {
			case v.HardLineBreak():
				s += "\n"
			case v.SoftLineBreak():
				s += " "
			}
			res = append(res, rttypes.Text{Text: s, Marks: marks})
		case *ast.String:
			res = append(res, rttypes.Text{Text: string(v.Value), Marks: marks})
		case *ast.CodeSpan:
			m := marks
			m.Code = true
			res = append(res, rttypes.Text{Text: codeSpan(v, src), Marks: m})
		case *ast.Emphasis:
			m := marks
			if v.Level >= 2 {
				m.Bold = true
			} else {
				m.Italic = true
			}
			res = append(res, inlines(v, src, m)...)
		case *ast.AutoLink:
			res = append(res, rttypes.Text{Text: string(v.URL(src)), Marks: marks})
		case *ast.RawHTML:
		default:
			res = append(res, inlines(c, src, marks)...)
		}
	}
	return res
}

// textValue раскрывает экранирование обратной косой чертой и ссылки на символы.
// Экранированный символ в ссылку не входит: `\&amp;` остается текстом "&amp;".
func textValue(v []byte) string {
	var b strings.Builder
	n := 0
	for i := 0; i < len(v)-1; i++ {
		if v[i] == '\\' && util.IsPunct(v[i+1]) {
			b.Write(references(v[n:i]))
			b.WriteByte(v[i+1])
			i++
			n = i + 1
		}
	}
	b.Write(references(v[n:]))
	return b.String()
}

func references(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(v))
}

func codeSpan(n *ast.CodeSpan, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
	}
	return b.String()
}

func lines(n ast.Node, src []byte) string {
	var b strings.Builder
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		b.Write(segment.Value(src))
	}
	return b.String()
}
