// Пакет richtext восстанавливает и проверяет дерево rich-text документа.
// Нормализатор вызывается после каждой правки, после разбора HTML и перед сохранением,
// поэтому за его пределами документ всегда удовлетворяет инвариантам дерева.
//
// Основные возможности:
//   - Приведение произвольного входа (типизированное дерево, JSON, мусор) к документу.
//   - Заворачивание текста верхнего уровня в параграфы, детей списков в элементы списка.
//   - Склейка соседних листьев с одинаковой разметкой и соседних списков одного вида.
//   - Деградация к каноническому пустому документу вместо ошибки.
package richtext

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Normalize приводит произвольный вход к документу, удовлетворяющему инвариантам дерева.
// Функция тотальна: не паникует и никогда не возвращает nil. Вход, не являющийся
// списком узлов, и пустой список дают канонический пустой документ.
func Normalize(input any) (doc Document) {
	defer func() {
		if r := recover(); r != nil {
			doc = Fallback("normalize", fmt.Errorf("%v", r), input)
		}
	}()

	var nodes []Node
	switch v := input.(type) {
	case Document:
		nodes = fixNodes(v)
	case []Node:
		nodes = fixNodes(v)
	case []any:
		nodes = make([]Node, 0, len(v))
		for _, raw := range v {
			nodes = append(nodes, fixNode(raw))
		}
	case []map[string]any:
		nodes = make([]Node, 0, len(v))
		for _, raw := range v {
			nodes = append(nodes, fixNode(raw))
		}
	case nil:
		return EmptyDocument()
	default:
		slog.Debug("Normalize non-list rich text input", "type", fmt.Sprintf("%T", input))
		return EmptyDocument()
	}

	nodes = repairRoot(nodes)
	if len(nodes) == 0 {
		return EmptyDocument()
	}
	return Document(nodes)
}

// NormalizeJSON разбирает JSON-дерево (устаревший формат хранения) и нормализует его.
func NormalizeJSON(data []byte) Document {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Fallback("normalize", err, string(data))
	}
	return Normalize(raw)
}

// Fallback фиксирует невосстановимый вход и возвращает канонический пустой документ.
func Fallback(op string, err error, input any) Document {
	FallbacksTotal.WithLabelValues(op).Inc()
	slog.Error("Rich text input degraded to empty document",
		"op", op,
		"err", err,
		"input", inputPreview(input),
	)
	return EmptyDocument()
}

func inputPreview(input any) string {
	s := fmt.Sprint(input)
	if utf8.RuneCountInString(s) <= 200 {
		return s
	}
	return string([]rune(s)[:200]) + "…"
}

func fixNodes(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, fixNode(n))
	}
	return res
}

// fixNode превращает одно значение в узел. Элементы восстанавливаются рекурсивно снизу вверх.
func fixNode(raw any) Node {
	switch v := raw.(type) {
	case Text:
		return v
	case *Text:
		if v == nil {
			return Text{}
		}
		return *v
	case Element:
		return fixElement(v.Kind, fixNodes(v.Children))
	case *Element:
		if v == nil {
			return Text{}
		}
		return fixElement(v.Kind, fixNodes(v.Children))
	case map[string]any:
		return fixRaw(v)
	}
	return Text{}
}

// fixRaw разбирает узел, пришедший из JSON. Устаревшие деревья используют "type" вместо "kind".
func fixRaw(m map[string]any) Node {
	_, hasText := m["text"]
	_, hasKind := m["kind"]
	_, hasType := m["type"]
	_, hasChildren := m["children"]

	if hasText && !hasKind && !hasType && !hasChildren {
		text, _ := m["text"].(string)
		return Text{
			Text: text,
			Marks: Marks{
				Bold:   m["bold"] == true,
				Italic: m["italic"] == true,
				Code:   m["code"] == true,
			},
		}
	}

	var children []Node
	switch list := m["children"].(type) {
	case []any:
		children = make([]Node, 0, len(list))
		for _, c := range list {
			children = append(children, fixNode(c))
		}
	case []map[string]any:
		children = make([]Node, 0, len(list))
		for _, c := range list {
			children = append(children, fixNode(c))
		}
	}

	kind, _ := m["kind"].(string)
	if kind == "" {
		kind, _ = m["type"].(string)
	}
	return fixElement(BlockKind(kind), children)
}

func fixElement(kind BlockKind, children []Node) Element {
	if kind == "" {
		kind = Paragraph
	}
	return repairElement(Element{Kind: kind, Children: children})
}

// repairElement применяет правила дерева к детям уже исправленного элемента.
func repairElement(el Element) Element {
	var children []Node
	switch {
	case el.Kind.IsTextBlock():
		children = flattenLeaves(el.Children)
	case el.Kind.IsList():
		children = wrapListItems(el.Children)
	default:
		children = wrapOrphanItems(el.Children)
	}
	children = mergeLeaves(children)
	children = joinLists(children)

	if len(children) == 0 {
		children = []Node{Text{}}
		if el.Kind.IsList() {
			children = []Node{Element{Kind: ListItem, Children: children}}
		}
	}
	el.Children = children
	return el
}

func repairRoot(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))
	var run []Node
	flush := func() {
		if len(run) > 0 {
			res = append(res, repairElement(Element{Kind: Paragraph, Children: run}))
			run = nil
		}
	}
	for _, n := range nodes {
		if t, ok := n.(Text); ok {
			run = append(run, t)
			continue
		}
		flush()
		res = append(res, n)
	}
	flush()

	return joinLists(wrapOrphanItems(res))
}

// flattenLeaves оставляет в текстовом блоке только листья, поднимая их из вложенных элементов.
func flattenLeaves(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			res = append(res, v)
		case Element:
			res = append(res, flattenLeaves(v.Children)...)
		}
	}
	return res
}

// wrapListItems гарантирует, что дети списка - элементы списка.
// Серия подряд идущих листьев становится одним элементом.
func wrapListItems(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))
	var run []Node
	flush := func() {
		if len(run) > 0 {
			res = append(res, repairElement(Element{Kind: ListItem, Children: run}))
			run = nil
		}
	}
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			run = append(run, v)
		case Element:
			flush()
			if v.Kind == ListItem {
				res = append(res, v)
			} else {
				res = append(res, repairElement(Element{Kind: ListItem, Children: []Node{v}}))
			}
		}
	}
	flush()
	return res
}

// wrapOrphanItems заворачивает элементы списка вне списка в маркированный список.
func wrapOrphanItems(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))
	var run []Node
	flush := func() {
		if len(run) > 0 {
			res = append(res, Element{Kind: BulletedList, Children: run})
			run = nil
		}
	}
	for _, n := range nodes {
		if el, ok := n.(Element); ok && el.Kind == ListItem {
			run = append(run, el)
			continue
		}
		flush()
		res = append(res, n)
	}
	flush()
	return res
}

// joinLists склеивает соседние списки одного вида.
func joinLists(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		el, ok := n.(Element)
		if ok && el.Kind.IsList() && len(res) > 0 {
			if prev, ok := res[len(res)-1].(Element); ok && prev.Kind == el.Kind {
				children := make([]Node, 0, len(prev.Children)+len(el.Children))
				children = append(children, prev.Children...)
				children = append(children, el.Children...)
				prev.Children = children
				res[len(res)-1] = prev
				continue
			}
		}
		res = append(res, n)
	}
	return res
}

// mergeLeaves убирает пустые листья рядом с содержимым и склеивает соседние листья с одинаковой разметкой.
// Единственный пустой лист теряет разметку: в HTML она не представима.
func mergeLeaves(nodes []Node) []Node {
	hasContent := false
	for _, n := range nodes {
		if t, ok := n.(Text); !ok || cleanText(t.Text) != "" {
			hasContent = true
			break
		}
	}

	res := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		t, ok := n.(Text)
		if !ok {
			res = append(res, n)
			continue
		}
		t.Text = cleanText(t.Text)
		if t.Text == "" {
			if hasContent || len(res) > 0 {
				continue
			}
			t.Marks = Marks{}
		}
		if len(res) > 0 {
			if prev, ok := res[len(res)-1].(Text); ok && prev.Marks == t.Marks {
				prev.Text += t.Text
				res[len(res)-1] = prev
				continue
			}
		}
		res = append(res, t)
	}
	return res
}

var textReplacer = strings.NewReplacer("\x00", "", "\r\n", "\n", "\r", "\n")

// cleanText убирает символы, которые не переживают разбор HTML: NUL и возврат каретки.
func cleanText(s string) string {
	if !strings.ContainsAny(s, "\x00\r") {
		return s
	}
	return textReplacer.Replace(s)
}
