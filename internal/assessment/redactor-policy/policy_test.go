package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteLegacyTags(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"inline tags", "<b>a</b><i>b</i><tt>c</tt>", "<strong>a</strong><em>b</em><code>c</code>"},
		{"div becomes paragraph", "<div>a<b>b</b></div>", "<p>a<strong>b</strong></p>"},
		{"div with blocks unwrapped", "<div><p>a</p><div>b</div></div>", "<p>a</p><p>b</p>"},
		{"supported tags untouched", "<ul><li><em>x</em></li></ul>", "<ul><li><em>x</em></li></ul>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteLegacyTags(tt.src))
		})
	}
}

func TestSanitizeQuestionHTML(t *testing.T) {
	t.Run("attributes and scripts removed", func(t *testing.T) {
		src := `<p onclick="alert(1)" style="color:red">a</p><script>alert(2)</script><img src="x">`
		assert.Equal(t, "<p>a</p>", SanitizeQuestionHTML(src))
	})

	t.Run("unknown tags keep content", func(t *testing.T) {
		assert.Equal(t, "<p>a b</p>", SanitizeQuestionHTML(`<p><span class="x">a</span> <a href="http://x">b</a></p>`))
	})

	t.Run("legacy markup", func(t *testing.T) {
		assert.Equal(t, "<p><strong>a</strong><br/>b</p>", SanitizeQuestionHTML("<div><b>a</b><br>b</div>"))
	})
}

func TestStripTagsPolicy(t *testing.T) {
	assert.Equal(t, "a b", StripTagsPolicy.Sanitize("<p>a <strong>b</strong></p>"))
}
