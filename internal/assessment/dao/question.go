package dao

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/aisa-it/assessment/internal/assessment/dto"
	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"github.com/aisa-it/assessment/internal/assessment/utils"
)

// Поля вопроса, редактируемые как rich-text.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldExplanation = "explanation"
	FieldConstraints = "constraints"
)

var QuestionFields = []string{FieldTitle, FieldDescription, FieldExplanation, FieldConstraints}

type Question struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       rttypes.Document `json:"title"`
	Description rttypes.Document `json:"description"`
	Explanation rttypes.Document `json:"explanation"`
	Constraints rttypes.Document `json:"constraints"`

	Draft bool `json:"draft" gorm:"index"`

	Options  []QuestionOption  `json:"options" gorm:"foreignKey:QuestionId;constraint:OnDelete:CASCADE"`
	Examples []QuestionExample `json:"examples" gorm:"foreignKey:QuestionId;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string { return "questions" }

// Field возвращает указатель на rich-text поле по имени.
func (q *Question) Field(name string) (*rttypes.Document, bool) {
	switch name {
	case FieldTitle:
		return &q.Title, true
	case FieldDescription:
		return &q.Description, true
	case FieldExplanation:
		return &q.Explanation, true
	case FieldConstraints:
		return &q.Constraints, true
	}
	return nil, false
}

// BeforeSave нормализует rich-text поля: в БД попадает только каноничный HTML.
func (q *Question) BeforeSave(tx *gorm.DB) error {
	if q.ID.IsNil() {
		q.ID = GenUUID()
	}
	for _, name := range QuestionFields {
		field, _ := q.Field(name)
		*field = richtext.Normalize(*field)
	}
	return nil
}

// ToLightDTO преобразует Question в облегченную версию для списков: заголовок и описание в виде текста.
func (q *Question) ToLightDTO() *dto.QuestionLight {
	if q == nil {
		return nil
	}
	return &dto.QuestionLight{
		ID:        q.ID.String(),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
		Draft:     q.Draft,
		Title:     utils.HtmlToPreview(htmlcodec.SerializeDocument(q.Title), PreviewLength),
		Preview:   utils.HtmlToPreview(htmlcodec.SerializeDocument(q.Description), PreviewLength),
	}
}

func (q *Question) ToDTO() *dto.Question {
	if q == nil {
		return nil
	}

	res := &dto.Question{
		QuestionLight: *q.ToLightDTO(),
		TitleDoc:      RichField(q.Title),
		Description:   RichField(q.Description),
		Explanation:   RichField(q.Explanation),
		Constraints:   RichField(q.Constraints),
		Options:       make([]dto.QuestionOption, 0, len(q.Options)),
		Examples:      make([]dto.QuestionExample, 0, len(q.Examples)),
	}
	for _, o := range q.Options {
		res.Options = append(res.Options, *o.ToDTO())
	}
	for _, e := range q.Examples {
		res.Examples = append(res.Examples, *e.ToDTO())
	}
	return res
}

type QuestionOption struct {
	ID         uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	QuestionId uuid.UUID `json:"question_id" gorm:"type:uuid;index"`

	Position int              `json:"position"`
	Correct  bool             `json:"correct"`
	Content  rttypes.Document `json:"content"`
}

func (QuestionOption) TableName() string { return "question_options" }

func (o *QuestionOption) BeforeSave(tx *gorm.DB) error {
	if o.ID.IsNil() {
		o.ID = GenUUID()
	}
	o.Content = richtext.Normalize(o.Content)
	return nil
}

func (o *QuestionOption) ToDTO() *dto.QuestionOption {
	if o == nil {
		return nil
	}
	return &dto.QuestionOption{
		ID:       o.ID.String(),
		Position: o.Position,
		Correct:  o.Correct,
		Content:  RichField(o.Content),
	}
}

type QuestionExample struct {
	ID         uuid.UUID `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	QuestionId uuid.UUID `json:"question_id" gorm:"type:uuid;index"`

	Position int              `json:"position"`
	Input    rttypes.Document `json:"input"`
	Output   rttypes.Document `json:"output"`
}

func (QuestionExample) TableName() string { return "question_examples" }

func (e *QuestionExample) BeforeSave(tx *gorm.DB) error {
	if e.ID.IsNil() {
		e.ID = GenUUID()
	}
	e.Input = richtext.Normalize(e.Input)
	e.Output = richtext.Normalize(e.Output)
	return nil
}

func (e *QuestionExample) ToDTO() *dto.QuestionExample {
	if e == nil {
		return nil
	}
	return &dto.QuestionExample{
		ID:       e.ID.String(),
		Position: e.Position,
		Input:    RichField(e.Input),
		Output:   RichField(e.Output),
	}
}
