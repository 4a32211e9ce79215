// Пакет rttypes описывает дерево rich-text документа, которым редактируются тексты вопросов:
// блоки (параграфы, списки, блоки кода) и текстовые листья с inline-разметкой.
//
// Основные возможности:
//   - Закрытые перечисления видов блоков и разметки.
//   - Типы Text и Element, реализующие запечатанный интерфейс Node.
//   - Хранение Document в БД в виде HTML-строки (driver.Valuer / sql.Scanner).
//   - JSON-представление дерева для редактора.
package rttypes

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BlockKind - вид блочного элемента.
type BlockKind string

const (
	Paragraph    BlockKind = "paragraph"
	CodeBlock    BlockKind = "code-block"
	BulletedList BlockKind = "bulleted-list"
	NumberedList BlockKind = "numbered-list"
	ListItem     BlockKind = "list-item"
)

// BlockKinds перечисляет все поддерживаемые виды блоков.
var BlockKinds = []BlockKind{Paragraph, CodeBlock, BulletedList, NumberedList, ListItem}

// Valid сообщает, входит ли вид в закрытый набор.
func (k BlockKind) Valid() bool {
	switch k {
	case Paragraph, CodeBlock, BulletedList, NumberedList, ListItem:
		return true
	}
	return false
}

// IsList - контейнер списка (ul/ol).
func (k BlockKind) IsList() bool {
	return k == BulletedList || k == NumberedList
}

// IsTextBlock - блок, содержащий только текстовые листья.
func (k BlockKind) IsTextBlock() bool {
	return k == Paragraph || k == CodeBlock
}

func (k BlockKind) String() string {
	return string(k)
}

// Mark - inline-разметка текстового листа.
type Mark string

const (
	Bold   Mark = "bold"
	Italic Mark = "italic"
	Code   Mark = "code"
)

// AllMarks в порядке вложенности при сериализации: снаружи внутрь.
var AllMarks = []Mark{Bold, Italic, Code}

func (m Mark) Valid() bool {
	switch m {
	case Bold, Italic, Code:
		return true
	}
	return false
}

func (m Mark) String() string {
	return string(m)
}

// Marks - набор булевых флагов разметки. Отсутствие флага = false.
type Marks struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
	Code   bool `json:"code,omitempty"`
}

// Has проверяет наличие разметки.
func (m Marks) Has(mark Mark) bool {
	switch mark {
	case Bold:
		return m.Bold
	case Italic:
		return m.Italic
	case Code:
		return m.Code
	}
	return false
}

// With возвращает копию набора с установленным (или снятым) флагом.
func (m Marks) With(mark Mark, on bool) Marks {
	switch mark {
	case Bold:
		m.Bold = on
	case Italic:
		m.Italic = on
	case Code:
		m.Code = on
	}
	return m
}

func (m Marks) Empty() bool {
	return !m.Bold && !m.Italic && !m.Code
}

// Node - узел дерева документа. Реализуется только Text и Element.
type Node interface {
	isNode()
}

// Text - текстовый лист. Детей не имеет.
type Text struct {
	Text string `json:"text"`
	Marks
}

func (Text) isNode() {}

// Element - блочный элемент.
type Element struct {
	Kind     BlockKind `json:"kind"`
	Children []Node    `json:"children"`
}

func (Element) isNode() {}

// NewText создает текстовый лист с указанной разметкой.
func NewText(text string, marks ...Mark) Text {
	t := Text{Text: text}
	for _, m := range marks {
		t.Marks = t.Marks.With(m, true)
	}
	return t
}

// NewElement создает элемент заданного вида.
func NewElement(kind BlockKind, children ...Node) Element {
	return Element{Kind: kind, Children: children}
}

// Document - упорядоченный список блоков верхнего уровня.
type Document []Node

// EmptyDocument возвращает канонический пустой документ: один пустой параграф.
func EmptyDocument() Document {
	return Document{Element{Kind: Paragraph, Children: []Node{Text{}}}}
}

// IsEmpty сообщает, что в документе нет ни одного символа текста.
func (d Document) IsEmpty() bool {
	empty := true
	Walk(d, func(n Node) bool {
		if t, ok := n.(Text); ok && t.Text != "" {
			empty = false
		}
		return empty
	})
	return empty
}

// IsBlank - в документе только пробельные символы.
func (d Document) IsBlank() bool {
	blank := true
	Walk(d, func(n Node) bool {
		if t, ok := n.(Text); ok && strings.TrimSpace(t.Text) != "" {
			blank = false
		}
		return blank
	})
	return blank
}

// PlainText возвращает текст документа без разметки, блоки разделяются переводом строки.
func (d Document) PlainText() string {
	var b strings.Builder
	var write func(nodes []Node)
	write = func(nodes []Node) {
		for _, n := range nodes {
			switch v := n.(type) {
			case Text:
				b.WriteString(v.Text)
			case Element:
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") && !v.Kind.IsList() {
					b.WriteString("\n")
				}
				write(v.Children)
			}
		}
	}
	write(d)
	return b.String()
}

// Walk обходит дерево в глубину, пока f возвращает true.
func Walk(nodes []Node, f func(n Node) bool) bool {
	for _, n := range nodes {
		if !f(n) {
			return false
		}
		if el, ok := n.(Element); ok {
			if !Walk(el.Children, f) {
				return false
			}
		}
	}
	return true
}

// Clone возвращает глубокую копию узлов.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	res := make([]Node, len(nodes))
	for i, n := range nodes {
		if el, ok := n.(Element); ok {
			el.Children = Clone(el.Children)
			res[i] = el
			continue
		}
		res[i] = n
	}
	return res
}

// HTMLSerializer - сериализация документа в HTML, устанавливается из пакета htmlcodec
var HTMLSerializer func(Document) string

// Loader - разбор сохраненного значения (HTML или устаревшее JSON-дерево), устанавливается из пакета htmlcodec
var Loader func(any) Document

// RawDecoder - нормализация произвольного JSON-дерева, устанавливается из пакета richtext
var RawDecoder func(any) Document

// UnmarshalJSON принимает дерево в любом виде и прогоняет его через нормализатор.
func (d *Document) UnmarshalJSON(data []byte) error {
	if RawDecoder == nil {
		return errors.New("RawDecoder not registered, import richtext package to enable document decoding")
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = RawDecoder(raw)
	return nil
}

// Value реализует driver.Valuer: в БД документ хранится HTML-строкой.
func (d Document) Value() (driver.Value, error) {
	if HTMLSerializer == nil {
		return nil, errors.New("HTMLSerializer not registered, import htmlcodec package to enable document storage")
	}
	return HTMLSerializer(d), nil
}

// Scan реализует sql.Scanner. NULL читается как канонический пустой документ.
func (d *Document) Scan(value interface{}) error {
	if Loader == nil {
		return errors.New("Loader not registered, import htmlcodec package to enable document storage")
	}

	switch v := value.(type) {
	case nil:
		*d = EmptyDocument()
	case []byte:
		*d = Loader(string(v))
	case string:
		*d = Loader(v)
	default:
		return errors.New(fmt.Sprint("Failed to scan rich text value:", value))
	}
	return nil
}

// GormDataType указывает GORM хранить документ в текстовой колонке.
func (Document) GormDataType() string {
	return "text"
}
