// Структуры данных (DTO) вопросов для передачи между слоями и клиентом.
// Каждое rich-text поле передается и деревом документа для редактора, и HTML для отображения.
package dto

import (
	"time"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

type RichField struct {
	Document rttypes.Document `json:"document"`
	HTML     string           `json:"html"`
}

type QuestionLight struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Draft     bool      `json:"draft"`

	Title   string `json:"title"`
	Preview string `json:"preview"`
}

type Question struct {
	QuestionLight

	TitleDoc    RichField `json:"title_detail"`
	Description RichField `json:"description"`
	Explanation RichField `json:"explanation"`
	Constraints RichField `json:"constraints"`

	Options  []QuestionOption  `json:"options"`
	Examples []QuestionExample `json:"examples"`
}

type QuestionOption struct {
	ID       string    `json:"id"`
	Position int       `json:"position"`
	Correct  bool      `json:"correct"`
	Content  RichField `json:"content"`
}

type QuestionExample struct {
	ID       string    `json:"id"`
	Position int       `json:"position"`
	Input    RichField `json:"input"`
	Output   RichField `json:"output"`
}
