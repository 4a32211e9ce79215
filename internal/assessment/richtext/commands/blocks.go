package commands

import (
	"slices"

	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// blockPaths сводит цель к путям блоков: лист заменяется родителем,
// контейнер списка раскрывается в свои элементы. Результат упорядочен по документу.
func blockPaths(doc rttypes.Document, target Target) []Path {
	seen := make(map[string]struct{})
	var res []Path
	add := func(p Path) {
		key := p.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		res = append(res, p)
	}

	for _, p := range target.Paths {
		n, ok := nodeAt(doc, p)
		if !ok {
			return nil
		}

		switch v := n.(type) {
		case rttypes.Text:
			if len(p) > 1 {
				add(slices.Clone(p[:len(p)-1]))
			}
		case rttypes.Element:
			if !v.Kind.IsList() {
				add(slices.Clone(p))
				continue
			}
			for i := range v.Children {
				add(append(slices.Clone(p), i))
			}
		}
	}

	slices.SortFunc(res, comparePaths)
	return res
}

// parentList возвращает список, непосредственно содержащий блок.
func parentList(doc rttypes.Document, p Path) (rttypes.Element, bool) {
	if len(p) < 2 {
		return rttypes.Element{}, false
	}
	n, ok := nodeAt(doc, p[:len(p)-1])
	if !ok {
		return rttypes.Element{}, false
	}
	el, ok := n.(rttypes.Element)
	if !ok || !el.Kind.IsList() {
		return rttypes.Element{}, false
	}
	return el, true
}

func blockActive(doc rttypes.Document, p Path, kind rttypes.BlockKind) bool {
	n, _ := nodeAt(doc, p)
	el, ok := n.(rttypes.Element)
	if !ok {
		return false
	}
	if el.Kind == kind {
		return true
	}
	if el.Kind == rttypes.ListItem {
		if list, ok := parentList(doc, p); ok && list.Kind == kind {
			return true
		}
	}
	return false
}

// IsBlockActive сообщает, что первый блок цели уже имеет вид kind
// (для списков - является элементом списка этого вида).
func IsBlockActive(doc rttypes.Document, target Target, kind rttypes.BlockKind) bool {
	paths := blockPaths(doc, target)
	if len(paths) == 0 || !kind.Valid() {
		return false
	}
	return blockActive(doc, paths[0], kind)
}

// ToggleBlock переключает вид блоков цели. Если первый блок уже имеет вид kind,
// блоки становятся параграфами. Блок внутри списка при переключении выносится
// из всех списков-предков, которые делятся вокруг него.
func ToggleBlock(doc rttypes.Document, target Target, kind rttypes.BlockKind) rttypes.Document {
	if !kind.Valid() {
		return doc
	}
	paths := blockPaths(doc, target)
	if len(paths) == 0 {
		return doc
	}

	newKind := kind
	if blockActive(doc, paths[0], kind) {
		newKind = rttypes.Paragraph
	}

	res := []rttypes.Node(doc)
	for i := len(paths) - 1; i >= 0; i-- {
		res = toggleAt(res, paths[i], newKind)
	}
	return richtext.Normalize(rttypes.Document(res))
}

// toggleAt меняет вид блока и выносит его из всех списков-предков:
// самый внешний список делится вокруг блока с сохранением структуры частей.
func toggleAt(nodes []rttypes.Node, p Path, kind rttypes.BlockKind) []rttypes.Node {
	n, ok := nodeAt(nodes, p)
	if !ok {
		return nodes
	}
	el, ok := n.(rttypes.Element)
	if !ok {
		return nodes
	}
	converted := convert(el, kind)

	outer, ok := outerList(nodes, p)
	if !ok {
		return splice(nodes, p, converted)
	}

	list, _ := nodeAt(nodes, outer)
	before, after := splitAround(list.(rttypes.Element), p[len(outer):])

	var repl []rttypes.Node
	if before != nil {
		repl = append(repl, *before)
	}
	repl = append(repl, converted...)
	if after != nil {
		repl = append(repl, *after)
	}
	return splice(nodes, outer, repl)
}

// outerList возвращает путь самого внешнего списка, содержащего блок.
func outerList(nodes []rttypes.Node, p Path) (Path, bool) {
	for depth := 1; depth < len(p); depth++ {
		n, ok := nodeAt(nodes, p[:depth])
		if !ok {
			return nil, false
		}
		if el, ok := n.(rttypes.Element); ok && el.Kind.IsList() {
			return p[:depth], true
		}
	}
	return nil, false
}

// splitAround делит элемент на содержимое до и после потомка по относительному пути.
// Пустая часть возвращается как nil.
func splitAround(el rttypes.Element, rel Path) (before, after *rttypes.Element) {
	i := rel[0]
	head := slices.Clone(el.Children[:i])
	tail := slices.Clone(el.Children[i+1:])

	if len(rel) > 1 {
		if child, ok := el.Children[i].(rttypes.Element); ok {
			b, a := splitAround(child, rel[1:])
			if b != nil {
				head = append(head, *b)
			}
			if a != nil {
				tail = append([]rttypes.Node{*a}, tail...)
			}
		}
	}

	if len(head) > 0 {
		before = &rttypes.Element{Kind: el.Kind, Children: head}
	}
	if len(tail) > 0 {
		after = &rttypes.Element{Kind: el.Kind, Children: tail}
	}
	return before, after
}

// convert меняет вид блока. Текстовый блок получает только листья:
// вложенные блоки остаются следом за ним соседями.
func convert(el rttypes.Element, kind rttypes.BlockKind) []rttypes.Node {
	switch {
	case kind.IsList():
		item := rttypes.Element{Kind: rttypes.ListItem, Children: el.Children}
		return []rttypes.Node{rttypes.Element{Kind: kind, Children: []rttypes.Node{item}}}

	case kind.IsTextBlock():
		var res, run []rttypes.Node
		flush := func() {
			if len(run) > 0 {
				res = append(res, rttypes.Element{Kind: kind, Children: run})
				run = nil
			}
		}
		for _, c := range el.Children {
			if _, ok := c.(rttypes.Text); ok {
				run = append(run, c)
				continue
			}
			flush()
			res = append(res, c)
		}
		flush()
		if len(res) == 0 {
			res = []rttypes.Node{rttypes.Element{Kind: kind, Children: []rttypes.Node{rttypes.Text{}}}}
		}
		return res
	}

	el.Kind = kind
	return []rttypes.Node{el}
}
