// Пакет export формирует выгрузки вопросов в Markdown и PDF.
//
// Основные возможности:
//   - Преобразование rich-text документа в Markdown с сохранением inline-разметки и списков.
//   - Экспорт вопроса целиком (условие, ограничения, варианты, примеры, пояснение) в Markdown.
//   - Экспорт вопроса в PDF с встроенными шрифтами Go (кириллица поддерживается).
package export

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// DocumentToMarkdown преобразует документ в Markdown. Блоки разделяются пустой строкой.
func DocumentToMarkdown(doc rttypes.Document) string {
	var b strings.Builder
	m := md.NewMarkdown(&b)

	first := true
	for _, n := range doc {
		el, ok := n.(rttypes.Element)
		if !ok {
			continue
		}
		if !first {
			m.PlainText("")
		}
		first = false
		writeBlock(m, el)
	}
	return strings.TrimRight(m.String(), "\n")
}

func writeBlock(m *md.Markdown, el rttypes.Element) {
	switch {
	case el.Kind == rttypes.CodeBlock:
		m.CodeBlocks(md.SyntaxHighlight(""), plain(el.Children))
	case el.Kind == rttypes.BulletedList:
		m.BulletList(listItems(el, 0)...)
	case el.Kind == rttypes.NumberedList:
		m.OrderedList(listItems(el, 0)...)
	default:
		m.PlainText(strings.ReplaceAll(inline(el.Children), "\n", "  \n"))
	}
}

// listItems возвращает тексты элементов списка. Вложенные списки
// дописываются к тексту элемента строками с отступом.
func listItems(list rttypes.Element, depth int) []string {
	items := make([]string, 0, len(list.Children))
	for _, c := range list.Children {
		item, ok := c.(rttypes.Element)
		if !ok {
			continue
		}
		items = append(items, itemText(item, depth))
	}
	return items
}

func itemText(item rttypes.Element, depth int) string {
	var lines []string
	var run []rttypes.Node
	flush := func() {
		if len(run) > 0 {
			lines = append(lines, strings.ReplaceAll(inline(run), "\n", " "))
			run = nil
		}
	}

	indent := strings.Repeat("  ", depth+1)
	for _, c := range item.Children {
		switch v := c.(type) {
		case rttypes.Text:
			run = append(run, v)
		case rttypes.Element:
			flush()
			if !v.Kind.IsList() {
				lines = append(lines, indent+strings.ReplaceAll(inline(v.Children), "\n", " "))
				continue
			}
			for i, s := range listItems(v, depth+1) {
				marker := "-"
				if v.Kind == rttypes.NumberedList {
					marker = fmt.Sprintf("%d.", i+1)
				}
				lines = append(lines, indent+marker+" "+s)
			}
		}
	}
	flush()
	return strings.Join(lines, "\n")
}

// inline собирает текст листьев с разметкой. Элементы внутри раскрываются в текст.
// Служебные символы Markdown экранируются, чтобы разбор вернул тот же текст.
func inline(nodes []rttypes.Node) string {
	w := inlineWriter{lineStart: true}
	w.nodes(nodes)
	return w.b.String()
}

type inlineWriter struct {
	b strings.Builder
	// lineStart - перед текущей позицией в строке только пробелы.
	lineStart bool
}

func (w *inlineWriter) nodes(nodes []rttypes.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case rttypes.Text:
			w.text(v)
		case rttypes.Element:
			w.nodes(v.Children)
		}
	}
}

// text пишет лист. Пробелы по краям выносятся за разделители разметки:
// `** a**` не считается выделением.
func (w *inlineWriter) text(t rttypes.Text) {
	body := strings.TrimSpace(t.Text)
	if body == "" || t.Marks == (rttypes.Marks{}) {
		w.escape(t.Text)
		return
	}

	lead := t.Text[:strings.Index(t.Text, body)]
	trail := t.Text[len(lead)+len(body):]

	w.escape(lead)
	if t.Code {
		w.b.WriteString(markDelims(t, codeSpan(body)))
	} else {
		var inner inlineWriter
		inner.escape(body)
		w.b.WriteString(markDelims(t, inner.b.String()))
	}
	w.lineStart = false
	w.escape(trail)
}

func markDelims(t rttypes.Text, s string) string {
	if t.Italic {
		s = md.Italic(s)
	}
	if t.Bold {
		s = md.Bold(s)
	}
	return s
}

// codeSpan оборачивает текст в обратные кавычки, которых больше, чем в самом длинном их ряду внутри.
func codeSpan(s string) string {
	if !strings.Contains(s, "`") {
		return md.Code(s)
	}

	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	return fence + " " + s + " " + fence
}

// inlineSpecial экранируются в любом месте строки.
const inlineSpecial = "\\*_`[]<&"

// lineSpecial экранируются в начале строки: заголовки, цитаты, маркеры списков.
const lineSpecial = "#>-+="

func (w *inlineWriter) escape(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			w.b.WriteByte(c)
			w.lineStart = true
			continue
		case c == ' ' || c == '\t':
			w.b.WriteByte(c)
			continue
		case strings.IndexByte(inlineSpecial, c) >= 0:
			w.b.WriteByte('\\')
		case w.lineStart && strings.IndexByte(lineSpecial, c) >= 0:
			w.b.WriteByte('\\')
		case w.lineStart && isDigit(c):
			// `1. x` и `2) x` начинают нумерованный список.
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			w.b.WriteString(s[i:j])
			if j < len(s) && (s[j] == '.' || s[j] == ')') {
				w.b.WriteByte('\\')
				w.b.WriteByte(s[j])
				j++
			}
			i = j - 1
			w.lineStart = false
			continue
		}
		w.b.WriteByte(c)
		w.lineStart = false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func plain(nodes []rttypes.Node) string {
	return rttypes.Document(nodes).PlainText()
}

// QuestionToMarkdown записывает вопрос в Markdown. Пустые разделы пропускаются.
func QuestionToMarkdown(q *dao.Question, out io.Writer) error {
	m := md.NewMarkdown(out).H1(strings.ReplaceAll(q.Title.PlainText(), "\n", " "))

	section := func(title string, doc rttypes.Document) {
		if doc.IsBlank() {
			return
		}
		m.PlainText("").H2(title).PlainText("").PlainText(DocumentToMarkdown(doc))
	}

	section("Условие", q.Description)
	section("Ограничения", q.Constraints)

	if len(q.Options) > 0 {
		set := make([]md.CheckBoxSet, 0, len(q.Options))
		for _, o := range q.Options {
			set = append(set, md.CheckBoxSet{
				Checked: o.Correct,
				Text:    strings.ReplaceAll(inline(flatten(o.Content)), "\n", " "),
			})
		}
		m.PlainText("").H2("Варианты ответа").PlainText("").CheckBox(set)
	}

	if len(q.Examples) > 0 {
		m.PlainText("").H2("Примеры")
		for i, e := range q.Examples {
			m.PlainText("").H3(fmt.Sprintf("Пример %d", i+1)).
				PlainText("").PlainText(md.Bold("Входные данные")).
				CodeBlocks(md.SyntaxHighlight(""), e.Input.PlainText()).
				PlainText("").PlainText(md.Bold("Выходные данные")).
				CodeBlocks(md.SyntaxHighlight(""), e.Output.PlainText())
		}
	}

	section("Пояснение", q.Explanation)

	return m.Build()
}

// flatten разделяет блоки документа пробелом, чтобы вариант ответа поместился в одну строку.
func flatten(doc rttypes.Document) []rttypes.Node {
	var res []rttypes.Node
	for i, n := range doc {
		if i > 0 {
			res = append(res, rttypes.Text{Text: " "})
		}
		res = append(res, n)
	}
	return res
}
