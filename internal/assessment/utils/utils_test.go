package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHtmlToPreview(t *testing.T) {
	t.Run("blocks become lines", func(t *testing.T) {
		res := HtmlToPreview("<p>Hello <strong>world</strong></p><ul><li>a</li><li>b</li></ul>", 0)
		assert.Equal(t, "Hello world\na\nb", res)
	})

	t.Run("entities decoded", func(t *testing.T) {
		assert.Equal(t, "2 < 3 & \"ok\"", HtmlToPreview("<p>2 &lt; 3 &amp; &#34;ok&#34;</p>", 0))
	})

	t.Run("line breaks", func(t *testing.T) {
		assert.Equal(t, "a\nb", HtmlToPreview("<pre>a<br>b</pre>", 0))
	})

	t.Run("truncated by runes", func(t *testing.T) {
		assert.Equal(t, "Приве…", HtmlToPreview("<p>Привет мир</p>", 5))
	})

	t.Run("empty document", func(t *testing.T) {
		assert.Equal(t, "", HtmlToPreview("<p></p>", 10))
	})
}

func TestSubstr(t *testing.T) {
	assert.Equal(t, "вет", Substr("Привет", 3, 10))
	assert.Equal(t, "", Substr("abc", 5, 1))
	assert.Equal(t, "ab", Substr("abc", 0, 2))
}
