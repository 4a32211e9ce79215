package rttypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarks(t *testing.T) {
	m := Marks{}.With(Bold, true).With(Code, true)
	assert.True(t, m.Has(Bold))
	assert.False(t, m.Has(Italic))
	assert.False(t, m.Has("underline"))
	assert.True(t, m.With(Bold, false).With(Code, false).Empty())

	assert.True(t, Code.Valid())
	assert.False(t, Mark("strike").Valid())
}

func TestBlockKind(t *testing.T) {
	for _, k := range BlockKinds {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, BlockKind("table").Valid())
	assert.True(t, NumberedList.IsList())
	assert.False(t, ListItem.IsList())
	assert.True(t, CodeBlock.IsTextBlock())
}

func TestDocumentText(t *testing.T) {
	doc := Document{
		NewElement(Paragraph, NewText("Hello "), NewText("world", Bold)),
		NewElement(BulletedList,
			NewElement(ListItem, NewText("a")),
			NewElement(ListItem, NewText("b")),
		),
	}

	assert.False(t, doc.IsEmpty())
	assert.False(t, doc.IsBlank())
	assert.Equal(t, "Hello world\na\nb", doc.PlainText())

	assert.True(t, EmptyDocument().IsEmpty())
	assert.True(t, Document{NewElement(Paragraph, NewText(" \n"))}.IsBlank())
	assert.False(t, Document{NewElement(Paragraph, NewText(" \n"))}.IsEmpty())
}

func TestClone(t *testing.T) {
	doc := Document{NewElement(Paragraph, NewText("a"))}
	cp := Clone(doc)
	cp[0].(Element).Children[0] = NewText("b")
	assert.Equal(t, NewText("a"), doc[0].(Element).Children[0])
	assert.Nil(t, Clone(nil))
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Document{NewElement(ListItem, NewText("x", Italic, Code))})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"list-item","children":[{"text":"x","italic":true,"code":true}]}]`, string(data))
}

func TestCodecNotRegistered(t *testing.T) {
	var doc Document
	assert.Error(t, json.Unmarshal([]byte(`[]`), &doc))

	_, err := EmptyDocument().Value()
	assert.Error(t, err)
	assert.Error(t, doc.Scan("<p></p>"))
	assert.Equal(t, "text", doc.GormDataType())
}
