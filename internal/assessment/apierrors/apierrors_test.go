package apierrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFormattedMessage(t *testing.T) {
	t.Run("with args", func(t *testing.T) {
		err := ErrUnknownMark.WithFormattedMessage("underline")
		assert.Equal(t, "unknown mark underline", err.Error())
		assert.Equal(t, "Неизвестный вид форматирования underline", err.RuErr)
		assert.Equal(t, "unknown mark %s", ErrUnknownMark.Err)
	})

	t.Run("without args", func(t *testing.T) {
		err := ErrUnknownBlockKind.WithFormattedMessage()
		assert.Equal(t, "unknown block kind ", err.Err)
	})
}

func TestCatalogueUniqueCodes(t *testing.T) {
	codes := make(map[int]string)
	for _, e := range Catalogue() {
		prev, exists := codes[e.Code]
		assert.False(t, exists, "code %d used by %q and %q", e.Code, prev, e.Err)
		codes[e.Code] = e.Err
		assert.NotZero(t, e.StatusCode)
	}
}
