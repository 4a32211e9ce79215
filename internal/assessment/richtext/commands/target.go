// Пакет commands реализует команды панели инструментов редактора над rich-text документом:
// переключение inline-разметки и вида блока для набора узлов.
//
// Команды чистые: исходный документ не изменяется, результат всегда нормализован.
// Некорректная цель или неизвестный вид разметки/блока дают исходный документ без изменений.
package commands

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// Path - индексы детей от корня документа до узла.
type Path []int

func (p Path) String() string {
	return fmt.Sprint([]int(p))
}

// Range - часть текста листа в рунах: [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Target - набор узлов, к которым применяется команда (выделение редактора).
type Target struct {
	Paths []Path `json:"paths"`
	// Ranges[i] сужает Paths[i] до части листа. nil или отсутствующий элемент - узел целиком.
	Ranges []*Range `json:"ranges,omitempty"`
}

// At создает цель из одного пути.
func At(path ...int) Target {
	return Target{Paths: []Path{path}}
}

// nodeAt находит узел по пути. Пустой путь указывает на корень и узлом не считается.
func nodeAt(nodes []rttypes.Node, path Path) (rttypes.Node, bool) {
	if len(path) == 0 {
		return nil, false
	}

	var node rttypes.Node
	for depth, i := range path {
		if i < 0 || i >= len(nodes) {
			return nil, false
		}
		node = nodes[i]
		if depth == len(path)-1 {
			break
		}
		el, ok := node.(rttypes.Element)
		if !ok {
			return nil, false
		}
		nodes = el.Children
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// rangeAt возвращает диапазон i-го пути или nil.
func (t Target) rangeAt(i int) *Range {
	if i < len(t.Ranges) {
		return t.Ranges[i]
	}
	return nil
}

// resolve проверяет, что все пути цели указывают на узлы дерева, а диапазоны -
// на существующий текст листьев. Один лист может входить в цель несколькими диапазонами.
func (t Target) resolve(doc rttypes.Document) ([]rttypes.Node, bool) {
	if len(t.Paths) == 0 || len(t.Ranges) > len(t.Paths) {
		return nil, false
	}

	nodes := make([]rttypes.Node, 0, len(t.Paths))
	for i, p := range t.Paths {
		n, ok := nodeAt(doc, p)
		if !ok {
			return nil, false
		}

		if r := t.rangeAt(i); r != nil {
			leaf, ok := n.(rttypes.Text)
			if !ok || r.Start < 0 || r.Start >= r.End || r.End > utf8.RuneCountInString(leaf.Text) {
				return nil, false
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, true
}

// Resolves сообщает, что цель непуста и все ее пути указывают на узлы документа.
func (t Target) Resolves(doc rttypes.Document) bool {
	_, ok := t.resolve(doc)
	return ok
}

// splice заменяет узел по пути на repl, копируя только затронутые срезы.
func splice(nodes []rttypes.Node, path Path, repl []rttypes.Node) []rttypes.Node {
	i := path[0]
	if len(path) == 1 {
		res := make([]rttypes.Node, 0, len(nodes)-1+len(repl))
		res = append(res, nodes[:i]...)
		res = append(res, repl...)
		return append(res, nodes[i+1:]...)
	}

	el := nodes[i].(rttypes.Element)
	el.Children = splice(el.Children, path[1:], repl)

	res := slices.Clone(nodes)
	res[i] = el
	return res
}

func comparePaths(a, b Path) int {
	return slices.Compare(a, b)
}
