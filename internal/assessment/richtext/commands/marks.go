package commands

import (
	"slices"
	"unicode/utf8"

	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// IsMarkActive сообщает, что все текстовые листья цели уже несут разметку.
func IsMarkActive(doc rttypes.Document, target Target, mark rttypes.Mark) bool {
	nodes, ok := target.resolve(doc)
	if !ok || !mark.Valid() {
		return false
	}

	leaves := 0
	active := rttypes.Walk(nodes, func(n rttypes.Node) bool {
		t, ok := n.(rttypes.Text)
		if !ok {
			return true
		}
		leaves++
		return t.Has(mark)
	})
	return active && leaves > 0
}

// ToggleMark снимает разметку, если ее несут все листья цели, иначе ставит ее на все листья.
// Лист с диапазонами делится, разметка меняется только у выделенных частей.
//
// Нормализация склеивает измененные листья с соседями, поэтому вместе с документом
// возвращается цель, указывающая ровно на измененный текст нового документа.
// Повторный вызов с ней возвращает исходный документ.
func ToggleMark(doc rttypes.Document, target Target, mark rttypes.Mark) (rttypes.Document, Target) {
	if !mark.Valid() {
		return doc, target
	}
	if _, ok := target.resolve(doc); !ok {
		return doc, target
	}

	selected := selection(doc, target)
	on := !IsMarkActive(doc, target, mark)

	res := []rttypes.Node(doc)
	for _, e := range markEdits(target) {
		n, _ := nodeAt(res, e.path)
		if t, ok := n.(rttypes.Text); ok && !e.whole {
			res = splice(res, e.path, splitLeaf(t, e.ranges, mark, on))
			continue
		}
		res = splice(res, e.path, []rttypes.Node{setMark(n, mark, on)})
	}

	out := richtext.Normalize(rttypes.Document(res))
	return out, selected.target(out)
}

// markEdit - изменение одного узла: целиком или по диапазонам листа.
type markEdit struct {
	path   Path
	whole  bool
	ranges []Range
}

// markEdits группирует цель по узлам в порядке с конца документа:
// деление листа не сдвигает пути, которые еще предстоит обработать.
func markEdits(target Target) []*markEdit {
	byPath := make(map[string]*markEdit)
	var edits []*markEdit
	for i, p := range target.Paths {
		key := p.String()
		e, ok := byPath[key]
		if !ok {
			e = &markEdit{path: p}
			byPath[key] = e
			edits = append(edits, e)
		}
		if r := target.rangeAt(i); r != nil {
			e.ranges = append(e.ranges, *r)
		} else {
			e.whole = true
		}
	}

	slices.SortFunc(edits, func(a, b *markEdit) int {
		return comparePaths(b.path, a.path)
	})
	return edits
}

func setMark(n rttypes.Node, mark rttypes.Mark, on bool) rttypes.Node {
	switch v := n.(type) {
	case rttypes.Text:
		v.Marks = v.Marks.With(mark, on)
		return v
	case rttypes.Element:
		children := make([]rttypes.Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = setMark(c, mark, on)
		}
		v.Children = children
		return v
	}
	return n
}

// splitLeaf делит лист на куски по границам диапазонов и меняет разметку выделенных кусков.
func splitLeaf(t rttypes.Text, ranges []Range, mark rttypes.Mark, on bool) []rttypes.Node {
	runes := []rune(t.Text)
	inside := make([]bool, len(runes))
	for _, r := range ranges {
		for i := r.Start; i < r.End; i++ {
			inside[i] = true
		}
	}

	var res []rttypes.Node
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && inside[j] == inside[i] {
			j++
		}
		piece := t
		piece.Text = string(runes[i:j])
		if inside[i] {
			piece.Marks = piece.Marks.With(mark, on)
		}
		res = append(res, piece)
		i = j
	}
	return res
}

// span - выделенный участок текста блока в рунах от начала его листьев.
type span struct{ start, end int }

// textSelection - выделенные участки по блокам. Блок задается путем элемента,
// чьи непосредственные дети - листья. Команды над разметкой не меняют элементы,
// поэтому пути блоков совпадают до и после нормализации.
type textSelection struct {
	blocks map[string]Path
	spans  map[string][]span
}

func selection(doc rttypes.Document, target Target) textSelection {
	sel := textSelection{blocks: make(map[string]Path), spans: make(map[string][]span)}
	for i, p := range target.Paths {
		n, _ := nodeAt(doc, p)
		switch v := n.(type) {
		case rttypes.Text:
			parent := p[:len(p)-1]
			start := leafOffset(doc, parent, p[len(p)-1])
			end := start + utf8.RuneCountInString(v.Text)
			if r := target.rangeAt(i); r != nil {
				start, end = start+r.Start, start+r.End
			}
			sel.add(parent, span{start, end})
		case rttypes.Element:
			sel.addElement(p, v)
		}
	}
	return sel
}

func (s textSelection) add(block Path, sp span) {
	key := block.String()
	s.blocks[key] = slices.Clone(block)
	s.spans[key] = append(s.spans[key], sp)
}

func (s textSelection) addElement(p Path, el rttypes.Element) {
	offset := 0
	for i, c := range el.Children {
		switch v := c.(type) {
		case rttypes.Text:
			n := utf8.RuneCountInString(v.Text)
			s.add(p, span{offset, offset + n})
			offset += n
		case rttypes.Element:
			s.addElement(append(slices.Clone(p), i), v)
		}
	}
}

// leafOffset - число рун в листьях блока перед листом с индексом index.
func leafOffset(doc rttypes.Document, block Path, index int) int {
	children := []rttypes.Node(doc)
	if len(block) > 0 {
		n, _ := nodeAt(doc, block)
		children = n.(rttypes.Element).Children
	}

	offset := 0
	for _, c := range children[:index] {
		if t, ok := c.(rttypes.Text); ok {
			offset += utf8.RuneCountInString(t.Text)
		}
	}
	return offset
}

// target переводит выделенные участки в пути и диапазоны листьев документа doc.
func (s textSelection) target(doc rttypes.Document) Target {
	keys := make([]string, 0, len(s.blocks))
	for k := range s.blocks {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return comparePaths(s.blocks[a], s.blocks[b])
	})

	var res Target
	hasRanges := false
	for _, key := range keys {
		block := s.blocks[key]
		n, ok := nodeAt(doc, block)
		el, isElement := n.(rttypes.Element)
		if !ok || !isElement {
			continue
		}

		offset := 0
		for i, c := range el.Children {
			leaf, ok := c.(rttypes.Text)
			if !ok {
				continue
			}
			start, end := offset, offset+utf8.RuneCountInString(leaf.Text)
			offset = end

			for _, sp := range cover(s.spans[key], start, end) {
				res.Paths = append(res.Paths, append(slices.Clone(block), i))
				if sp.start == start && sp.end == end {
					res.Ranges = append(res.Ranges, nil)
					continue
				}
				res.Ranges = append(res.Ranges, &Range{Start: sp.start - start, End: sp.end - start})
				hasRanges = true
			}
		}
	}
	if !hasRanges {
		res.Ranges = nil
	}
	return res
}

// cover возвращает части листа [start, end), попавшие в выделение, без пересечений.
// Пустой лист выбран, если выделен участок, касающийся его позиции.
func cover(spans []span, start, end int) []span {
	if start == end {
		for _, sp := range spans {
			if sp.start <= start && start <= sp.end {
				return []span{{start, end}}
			}
		}
		return nil
	}

	var parts []span
	for _, sp := range spans {
		lo, hi := max(sp.start, start), min(sp.end, end)
		if lo < hi {
			parts = append(parts, span{lo, hi})
		}
	}
	slices.SortFunc(parts, func(a, b span) int { return a.start - b.start })

	var res []span
	for _, sp := range parts {
		if n := len(res); n > 0 && sp.start <= res[n-1].end {
			res[n-1].end = max(res[n-1].end, sp.end)
			continue
		}
		res = append(res, sp)
	}
	return res
}
