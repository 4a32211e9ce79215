package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		from   string
		format string
		want   string
	}{
		{"plain text to html", "2 < 3", "stored", "html", "<p>2 &lt; 3</p>\n"},
		{"legacy tree to html", `[{"type":"numbered-list","children":[{"text":"x"}]}]`, "stored", "html", "<ol><li>x</li></ol>\n"},
		{"html to text", "<p>a</p><ul><li>b</li></ul>", "stored", "text", "a\nb\n"},
		{"html to md", "<p><strong>a</strong></p>", "stored", "md", "**a**\n"},
		{"markdown to html", "1. *a*\n2. `b`", "md", "html", "<ol><li><em>a</em></li><li><code>b</code></li></ol>\n"},
		{"empty to json", "", "stored", "json", "[\n  {\n    \"kind\": \"paragraph\",\n    \"children\": [\n      {\n        \"text\": \"\"\n      }\n    ]\n  }\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, convert(strings.NewReader(tt.input), &out, tt.from, tt.format))
			assert.Equal(t, tt.want, out.String())
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, convert(strings.NewReader("x"), &out, "stored", "docx"))
		assert.Error(t, convert(strings.NewReader("x"), &out, "rtf", "html"))
	})
}
