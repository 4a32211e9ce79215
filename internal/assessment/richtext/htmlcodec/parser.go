package htmlcodec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var tagKinds = map[atom.Atom]rttypes.BlockKind{
	atom.P:   rttypes.Paragraph,
	atom.Pre: rttypes.CodeBlock,
	atom.Ul:  rttypes.BulletedList,
	atom.Ol:  rttypes.NumberedList,
	atom.Li:  rttypes.ListItem,
}

var tagMarks = map[atom.Atom]rttypes.Mark{
	atom.Strong: rttypes.Bold,
	atom.Em:     rttypes.Italic,
	atom.Code:   rttypes.Code,
}

// Deserialize разбирает сохраненный HTML в нормализованный документ.
// Ошибки разбора не возвращаются: документ деградирует до канонического пустого.
func Deserialize(src string) (doc rttypes.Document) {
	if src == "" {
		return rttypes.EmptyDocument()
	}

	defer func() {
		if r := recover(); r != nil {
			doc = richtext.Fallback("deserialize", fmt.Errorf("%v", r), src)
		}
	}()

	nodes, err := ParseFragment(src)
	if err != nil {
		return richtext.Fallback("deserialize", err, src)
	}

	var out []rttypes.Node
	for _, n := range nodes {
		out = append(out, mapNode(n, scope{container: true})...)
	}
	if len(out) == 0 {
		return rttypes.EmptyDocument()
	}
	return richtext.Normalize(rttypes.Document(out))
}

// ParseFragment разбирает HTML так, как его разобрал бы браузер внутри <body>.
func ParseFragment(src string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	return html.ParseFragment(strings.NewReader(src), context)
}

// scope описывает место узла в дереве HTML при разборе.
type scope struct {
	// container - корень или ul/ol: пробельный текст здесь является форматированием.
	container bool
	// item - внутри li: пробельный текст с переводом строки стоит между блоками.
	item bool
	// pre - внутри pre: пробелы и переводы строк сохраняются как есть.
	pre bool
}

var softBreak = regexp.MustCompile(`[ \t\r\f]*\n[ \t\n\r\f]*`)

// mapNode переводит узел HTML в узлы документа. Теги без своего вида
// отдают детей родителю. Вне pre перевод строки в исходнике - мягкий пробел,
// жесткий перенос задается только <br>.
func mapNode(n *html.Node, sc scope) []rttypes.Node {
	switch n.Type {
	case html.TextNode:
		data := n.Data
		if data == "" {
			return nil
		}
		if !sc.pre {
			blank := strings.TrimSpace(data) == ""
			if sc.container && blank {
				return nil
			}
			if sc.item && blank && strings.Contains(data, "\n") {
				return nil
			}
			data = softBreak.ReplaceAllString(data, " ")
		}
		return []rttypes.Node{rttypes.Text{Text: data}}
	case html.ElementNode:
	default:
		return nil
	}

	if n.DataAtom == atom.Br {
		return []rttypes.Node{rttypes.Text{Text: "\n"}}
	}

	kind, isBlock := tagKinds[n.DataAtom]

	inner := scope{pre: sc.pre}
	if isBlock {
		inner = scope{
			container: kind.IsList(),
			item:      kind == rttypes.ListItem,
			pre:       sc.pre || kind == rttypes.CodeBlock,
		}
	} else if _, ok := tagMarks[n.DataAtom]; !ok {
		// Неизвестный тег прозрачен: его дети находятся в том же месте, что и он сам
		inner = sc
	}

	var children []rttypes.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, mapNode(c, inner)...)
	}

	if mark, ok := tagMarks[n.DataAtom]; ok {
		return applyMark(children, mark)
	}

	if !isBlock {
		return children
	}
	if len(children) == 0 {
		children = []rttypes.Node{rttypes.Text{}}
	}
	// Дети списка, не являющиеся li, заворачиваются нормализатором
	return []rttypes.Node{rttypes.Element{Kind: kind, Children: children}}
}

// applyMark ставит разметку на все листья поддерева.
func applyMark(nodes []rttypes.Node, mark rttypes.Mark) []rttypes.Node {
	for i, n := range nodes {
		switch v := n.(type) {
		case rttypes.Text:
			v.Marks = v.Marks.With(mark, true)
			nodes[i] = v
		case rttypes.Element:
			v.Children = applyMark(v.Children, mark)
			nodes[i] = v
		}
	}
	return nodes
}
