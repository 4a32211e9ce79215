package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/mdcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

func testQuestion() *dao.Question {
	return &dao.Question{
		Title:       htmlcodec.Deserialize("<p>Сумма двух чисел</p>"),
		Description: htmlcodec.Deserialize(`<p>Даны числа <code>a</code> и <code>b</code>.</p><ul><li>первое<ol><li>вложенное</li></ol></li><li><strong>второе</strong></li></ul>`),
		Constraints: htmlcodec.Deserialize("<p></p>"),
		Explanation: htmlcodec.Deserialize("<pre>print(a + b)</pre>"),
		Options: []dao.QuestionOption{
			{Correct: true, Content: htmlcodec.Deserialize("<p>a + b 😋</p>")},
			{Content: htmlcodec.Deserialize("<p>a - b</p>")},
		},
		Examples: []dao.QuestionExample{
			{Input: htmlcodec.Deserialize("<p>1 2</p>"), Output: htmlcodec.Deserialize("<p>3</p>")},
		},
	}
}

func TestDocumentToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{"marks", "<p>a <strong>b</strong> <em>c</em> <code>d</code></p>", []string{"a **b** *c* `d`"}},
		{"paragraphs", "<p>one</p><p>two</p>", []string{"one\n\ntwo"}},
		{"line break", "<p>one<br>two</p>", []string{"one  \ntwo"}},
		{"bulleted", "<ul><li>x</li><li>y</li></ul>", []string{"- x", "- y"}},
		{"numbered", "<ol><li>x</li><li>y</li></ol>", []string{"1. x", "2. y"}},
		{"nested", "<ul><li>x<ol><li>y</li></ol></li></ul>", []string{"- x", "  1. y"}},
		{"code block", "<pre>a := 1</pre>", []string{"```", "a := 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DocumentToMarkdown(htmlcodec.Deserialize(tt.html))
			for _, w := range tt.want {
				assert.Contains(t, res, w)
			}
		})
	}

	assert.Empty(t, DocumentToMarkdown(nil))
}

func TestMarkdownRoundTrip(t *testing.T) {
	doc := htmlcodec.Deserialize("<p>a <strong>b</strong> <em>c</em> <code>d</code></p>" +
		"<p>one<br>two</p>" +
		"<ul><li>x<ol><li>y</li><li>z</li></ol></li><li>w</li></ul>" +
		"<pre>a := 1\nb</pre>")

	assert.Equal(t, doc, mdcodec.Parse([]byte(DocumentToMarkdown(doc))))
}

func TestMarkdownRoundTripEscapes(t *testing.T) {
	para := func(children ...rttypes.Node) rttypes.Document {
		return rttypes.Document{rttypes.NewElement(rttypes.Paragraph, children...)}
	}

	for _, s := range []string{
		"2*3*4 = 24",
		`a \* b`,
		"1. x",
		"2) y",
		"[a](b)",
		"# не заголовок",
		"- не список",
		"+ и > и =",
		"snake_case_name",
		"<b>тег</b> & &amp;",
		"`код`",
		"a\n# b\n3. c",
	} {
		doc := para(rttypes.NewText(s))
		assert.Equal(t, doc, mdcodec.Parse([]byte(DocumentToMarkdown(doc))), s)
	}

	t.Run("marked text", func(t *testing.T) {
		doc := para(
			rttypes.NewText("x "),
			rttypes.NewText("2*3", rttypes.Bold),
			rttypes.NewText(" и "),
			rttypes.NewText("a_b", rttypes.Italic),
			rttypes.NewText(" "),
			rttypes.NewText("a`b", rttypes.Code),
		)
		res := DocumentToMarkdown(doc)
		assert.Equal(t, "x **2\\*3** и *a\\_b* `` a`b ``", res)
		assert.Equal(t, doc, mdcodec.Parse([]byte(res)))
	})

	t.Run("list items", func(t *testing.T) {
		doc := rttypes.Document{rttypes.NewElement(rttypes.BulletedList,
			rttypes.NewElement(rttypes.ListItem, rttypes.NewText("1. x")),
			rttypes.NewElement(rttypes.ListItem, rttypes.NewText("- y")),
		)}
		assert.Equal(t, doc, mdcodec.Parse([]byte(DocumentToMarkdown(doc))))
	})

	t.Run("spaces outside delimiters", func(t *testing.T) {
		doc := para(rttypes.NewText("a"), rttypes.NewText(" b ", rttypes.Bold), rttypes.NewText("c"))
		assert.Equal(t, "a **b** c", DocumentToMarkdown(doc))
	})

	t.Run("code block is literal", func(t *testing.T) {
		doc := rttypes.Document{rttypes.NewElement(rttypes.CodeBlock, rttypes.NewText("a*b_c"))}
		assert.Contains(t, DocumentToMarkdown(doc), "a*b_c")
	})
}

func TestQuestionToMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, QuestionToMarkdown(testQuestion(), &buf))

	res := buf.String()
	assert.Contains(t, res, "# Сумма двух чисел")
	assert.Contains(t, res, "## Условие")
	assert.Contains(t, res, "`a`")
	assert.Contains(t, res, "**второе**")
	assert.Contains(t, res, "[x] a + b")
	assert.Contains(t, res, "[ ] a - b")
	assert.Contains(t, res, "### Пример 1")
	assert.Contains(t, res, "print(a + b)")
	assert.NotContains(t, res, "Ограничения")
}

func TestQuestionToFPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, QuestionToFPDF(testQuestion(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestCleanUnsupportedSymbols(t *testing.T) {
	assert.Equal(t, "ok ", cleanUnsupportedSymbols("ok 😋"))
	assert.Equal(t, "тест", cleanUnsupportedSymbols("тест"))
}
