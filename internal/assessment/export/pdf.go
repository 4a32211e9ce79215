package export

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

const (
	textFont = "Go"
	monoFont = "GoMono"

	textSize   = 11
	listIndent = 6
)

type pdfWriter struct {
	pdf *fpdf.Fpdf

	defaultMargins Margins
}

type Margins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (m *Margins) GetMargins(pdf fpdf.Pdf) {
	m.Left, m.Top, m.Right, m.Bottom = pdf.GetMargins()
}

// QuestionToFPDF записывает вопрос в PDF. Пустые разделы пропускаются.
func QuestionToFPDF(q *dao.Question, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "") // 210*297 mm

	w := pdfWriter{pdf: pdf}
	w.defaultMargins.GetMargins(pdf)

	pdf.AddUTF8FontFromBytes(textFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(textFont, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(textFont, "I", goitalic.TTF)
	pdf.AddUTF8FontFromBytes(textFont, "BI", gobolditalic.TTF)
	pdf.AddUTF8FontFromBytes(monoFont, "", gomono.TTF)
	pdf.AddUTF8FontFromBytes(monoFont, "B", gomonobold.TTF)
	pdf.AddUTF8FontFromBytes(monoFont, "I", gomonoitalic.TTF)
	pdf.AddUTF8FontFromBytes(monoFont, "BI", gomonobolditalic.TTF)

	title := strings.ReplaceAll(q.Title.PlainText(), "\n", " ")
	pdf.SetTitle(title, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(textFont, "", 8)
		pdf.SetTextColor(71, 74, 82)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(textFont, "B", 20)
	w.write(cleanUnsupportedSymbols(title))
	pdf.Ln(12)

	w.section("Условие", q.Description)
	w.section("Ограничения", q.Constraints)

	if len(q.Options) > 0 {
		w.heading("Варианты ответа")
		for _, o := range q.Options {
			marker := "[ ]"
			if o.Correct {
				marker = "[x]"
			}
			pdf.SetFont(textFont, "", textSize)
			w.write(marker + " ")
			w.pdf.SetLeftMargin(w.defaultMargins.Left + listIndent)
			w.writeDocument(o.Content, 0)
			w.resetMargins()
		}
	}

	if len(q.Examples) > 0 {
		w.heading("Примеры")
		for i, e := range q.Examples {
			pdf.SetFont(textFont, "B", textSize)
			w.write(fmt.Sprintf("Пример %d", i+1))
			pdf.Ln(-1)
			w.writeCode("Входные данные", e.Input.PlainText())
			w.writeCode("Выходные данные", e.Output.PlainText())
		}
	}

	w.section("Пояснение", q.Explanation)

	return pdf.Output(out)
}

func (w *pdfWriter) heading(text string) {
	w.pdf.Ln(4)
	w.pdf.SetFont(textFont, "B", 15)
	w.pdf.SetTextColor(0, 0, 0)
	w.write(text)
	w.pdf.Ln(-1)
	w.pdf.SetDrawColor(71, 74, 82)
	w.pdf.Line(w.pdf.GetX(), w.pdf.GetY(), 200, w.pdf.GetY())
	w.pdf.Ln(2)
}

func (w *pdfWriter) section(title string, doc rttypes.Document) {
	if doc.IsBlank() {
		return
	}
	w.heading(title)
	w.writeDocument(doc, 0)
}

func (w *pdfWriter) writeDocument(doc rttypes.Document, depth int) {
	for _, n := range doc {
		el, ok := n.(rttypes.Element)
		if !ok {
			continue
		}
		w.writeBlock(el, depth)
	}
}

func (w *pdfWriter) writeBlock(el rttypes.Element, depth int) {
	switch {
	case el.Kind.IsList():
		w.writeList(el, depth)
	case el.Kind == rttypes.CodeBlock:
		w.writeCode("", plain(el.Children))
	default:
		w.writeLeaves(el.Children, false)
		w.pdf.Ln(-1)
	}
}

func (w *pdfWriter) writeList(list rttypes.Element, depth int) {
	left := w.defaultMargins.Left + float64(listIndent*(depth+1))
	for i, c := range list.Children {
		item, ok := c.(rttypes.Element)
		if !ok {
			continue
		}

		w.pdf.SetLeftMargin(left - listIndent)
		w.pdf.SetX(left - listIndent)
		w.pdf.SetFont(textFont, "", textSize)
		w.pdf.SetTextColor(0, 0, 0)
		if list.Kind == rttypes.NumberedList {
			w.write(fmt.Sprintf("%d.", i+1))
		} else {
			w.write("•")
		}

		w.pdf.SetLeftMargin(left)
		w.pdf.SetX(left)
		var run []rttypes.Node
		for _, n := range item.Children {
			if el, ok := n.(rttypes.Element); ok {
				if len(run) > 0 {
					w.writeLeaves(run, false)
					w.pdf.Ln(-1)
					run = nil
				}
				w.writeBlock(el, depth+1)
				w.pdf.SetLeftMargin(left)
				continue
			}
			run = append(run, n)
		}
		if len(run) > 0 {
			w.writeLeaves(run, false)
			w.pdf.Ln(-1)
		}
	}
	w.pdf.SetLeftMargin(left - listIndent)
}

// writeCode выводит моноширинный текст на сером фоне с необязательной подписью.
func (w *pdfWriter) writeCode(caption, text string) {
	if caption != "" {
		w.pdf.SetFont(textFont, "I", textSize-1)
		w.pdf.SetTextColor(71, 74, 82)
		w.write(caption)
		w.pdf.Ln(-1)
	}
	w.pdf.SetFont(monoFont, "", textSize-1)
	w.pdf.SetTextColor(0, 0, 0)
	w.SetHexFillColor("#eef1f5")
	_, s := w.pdf.GetFontSize()
	w.pdf.MultiCell(0, s+1, cleanUnsupportedSymbols(text), "", "L", true)
	w.pdf.Ln(2)
}

func (w *pdfWriter) writeLeaves(nodes []rttypes.Node, mono bool) {
	for _, n := range nodes {
		switch v := n.(type) {
		case rttypes.Text:
			w.writeText(v, mono)
		case rttypes.Element:
			w.writeLeaves(v.Children, mono)
		}
	}
}

func (w *pdfWriter) writeText(t rttypes.Text, mono bool) {
	if t.Text == "" {
		return
	}

	style := ""
	if t.Bold {
		style += "B"
	}
	if t.Italic {
		style += "I"
	}
	family := textFont
	if mono || t.Code {
		family = monoFont
	}
	w.pdf.SetFont(family, style, textSize)
	w.pdf.SetTextColor(0, 0, 0)

	w.write(cleanUnsupportedSymbols(t.Text))
}

func (w *pdfWriter) write(text string) {
	_, s := w.pdf.GetFontSize()
	w.pdf.Write(s+0.1, text)
}

// cleanUnsupportedSymbols убирает символы вне базовой плоскости: во встроенных шрифтах их нет.
func cleanUnsupportedSymbols(text string) string {
	var b strings.Builder
	for _, s := range text {
		if s < 65536 {
			b.WriteRune(s)
		}
	}
	return b.String()
}

func (w *pdfWriter) SetHexFillColor(hex string) {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return
	}
	w.pdf.SetFillColor(r, g, b)
}

func (w *pdfWriter) resetMargins() {
	w.pdf.SetMargins(w.defaultMargins.Left, w.defaultMargins.Top, w.defaultMargins.Right)
}
