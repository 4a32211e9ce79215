// Политики очистки HTML, приходящего от редактора вопросов и из устаревших записей.
// Разрешается только разметка, которую понимает модель документа, без атрибутов.
//
// Основные возможности:
//   - QuestionPolicy: блоки p, pre, ul, ol, li и inline strong, em, code, br.
//   - StripTagsPolicy: удаление всей разметки для превью.
//   - Переименование устаревших тегов (b, i, tt, div) в поддерживаемые.
package policy

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var StripTagsPolicy *bluemonday.Policy = bluemonday.StrictPolicy()
var QuestionPolicy *bluemonday.Policy = bluemonday.NewPolicy()

func init() {
	QuestionPolicy.AllowElements("p", "pre", "ul", "ol", "li", "strong", "em", "code", "br")
	// До переименования в RewriteLegacyTags
	QuestionPolicy.AllowElements("b", "i")
}

var legacyTags = map[atom.Atom]atom.Atom{
	atom.B:  atom.Strong,
	atom.I:  atom.Em,
	atom.Tt: atom.Code,
}

var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Pre: true, atom.Ul: true, atom.Ol: true,
	atom.Li: true, atom.Table: true, atom.Blockquote: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// SanitizeQuestionHTML приводит входящий HTML к набору тегов модели документа.
func SanitizeQuestionHTML(src string) string {
	return QuestionPolicy.Sanitize(RewriteLegacyTags(src))
}

// RewriteLegacyTags переименовывает b, i, tt в strong, em, code.
// div без вложенных блоков становится параграфом, остальные div разворачиваются.
func RewriteLegacyTags(src string) string {
	if src == "" {
		return ""
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return src
	}

	var result strings.Builder
	for _, n := range nodes {
		for _, out := range rewriteNode(n) {
			if err := html.Render(&result, out); err != nil {
				return src
			}
		}
	}
	return result.String()
}

// rewriteNode возвращает узлы, которыми нужно заменить n в родителе.
func rewriteNode(n *html.Node) []*html.Node {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		repl := rewriteNode(c)
		if len(repl) == 1 && repl[0] == c {
			continue
		}
		for _, r := range repl {
			if r.Parent != nil {
				r.Parent.RemoveChild(r)
			}
			n.InsertBefore(r, c)
		}
		n.RemoveChild(c)
	}

	if n.Type != html.ElementNode {
		return []*html.Node{n}
	}

	if a, ok := legacyTags[n.DataAtom]; ok {
		rename(n, a)
		return []*html.Node{n}
	}

	if n.DataAtom == atom.Div {
		if !hasBlockChild(n) {
			rename(n, atom.P)
			return []*html.Node{n}
		}
		var children []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		return children
	}
	return []*html.Node{n}
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockAtoms[c.DataAtom] {
			return true
		}
	}
	return false
}

func rename(n *html.Node, a atom.Atom) {
	n.DataAtom = a
	n.Data = a.String()
}
