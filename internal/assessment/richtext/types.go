package richtext

import (
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// Реэкспорт типов из rttypes
type (
	BlockKind = rttypes.BlockKind
	Mark      = rttypes.Mark
	Marks     = rttypes.Marks
	Node      = rttypes.Node
	Text      = rttypes.Text
	Element   = rttypes.Element
	Document  = rttypes.Document
)

// Реэкспорт констант
const (
	Paragraph    = rttypes.Paragraph
	CodeBlock    = rttypes.CodeBlock
	BulletedList = rttypes.BulletedList
	NumberedList = rttypes.NumberedList
	ListItem     = rttypes.ListItem

	Bold   = rttypes.Bold
	Italic = rttypes.Italic
	Code   = rttypes.Code
)

// Реэкспорт функций
var (
	EmptyDocument = rttypes.EmptyDocument
	NewText       = rttypes.NewText
	NewElement    = rttypes.NewElement
)

func init() {
	rttypes.RawDecoder = Normalize
}
