package utils

import (
	"html"
	"regexp"
	"strings"

	policy "github.com/aisa-it/assessment/internal/assessment/redactor-policy"
	"github.com/microcosm-cc/bluemonday"
)

var blankLines = regexp.MustCompile(`\n{2,}`)

// HtmlToPreview превращает HTML вопроса в короткий текст для списков.
// Блоки и переносы строк становятся переводами строк, длина ограничивается limit символами.
func HtmlToPreview(text string, limit int) string {
	res := prepareHtmlBody(policy.StripTagsPolicy, text)
	res = html.UnescapeString(res)
	res = blankLines.ReplaceAllString(res, "\n")

	if limit > 0 && len([]rune(res)) > limit {
		return strings.TrimSpace(Substr(res, 0, limit)) + "…"
	}
	return res
}

func Substr(input string, start int, length int) string {
	asRunes := []rune(input)

	if start >= len(asRunes) {
		return ""
	}

	if start+length > len(asRunes) {
		length = len(asRunes) - start
	}

	return string(asRunes[start : start+length])
}

func prepareHtmlBody(stripPolicy *bluemonday.Policy, html string) string {
	replacer := strings.NewReplacer("<p>", "\n", "<li>", "\n", "<pre>", "\n", "<br>", "\n", "<br/>", "\n")
	res := replacer.Replace(html)
	res = stripPolicy.Sanitize(res)
	res = strings.TrimSpace(res)
	return res
}
