// Бизнес-логика редактирования вопросов: создание, чтение и фиксация rich-text полей.
// Фиксация поля всегда проходит через нормализатор, в БД сохраняется каноничный HTML.
package business

import (
	"errors"

	"gorm.io/gorm"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	errStack "github.com/aisa-it/assessment/internal/assessment/stack-error"
	"github.com/gofrs/uuid"
)

type Business struct {
	db *gorm.DB
}

func NewBL(db *gorm.DB) *Business {
	return &Business{db: db}
}

// QuestionForm - содержимое нового вопроса.
type QuestionForm struct {
	Title       rttypes.Document
	Description rttypes.Document
	Explanation rttypes.Document
	Constraints rttypes.Document
	Draft       bool
}

// CreateQuestion создает вопрос. Заголовок не может быть пустым.
func (b *Business) CreateQuestion(form QuestionForm) (*dao.Question, error) {
	q := dao.Question{
		ID:          dao.GenUUID(),
		Title:       richtext.Normalize(form.Title),
		Description: richtext.Normalize(form.Description),
		Explanation: richtext.Normalize(form.Explanation),
		Constraints: richtext.Normalize(form.Constraints),
		Draft:       form.Draft,
	}
	if q.Title.IsBlank() {
		return nil, apierrors.ErrQuestionTitleRequired
	}

	if err := b.db.Create(&q).Error; err != nil {
		return nil, errStack.TrackErrorStack(err)
	}
	return &q, nil
}

// GetQuestion возвращает вопрос с вариантами ответа и примерами по порядку.
func (b *Business) GetQuestion(id uuid.UUID) (*dao.Question, error) {
	var q dao.Question
	err := b.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Examples", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrQuestionNotFound
		}
		return nil, errStack.TrackErrorStack(err).Question(id)
	}
	return &q, nil
}

// ListQuestions возвращает страницу вопросов от новых к старым и общее количество.
func (b *Business) ListQuestions(offset, limit int, draft *bool) ([]dao.Question, int64, error) {
	query := b.db.Model(&dao.Question{})
	if draft != nil {
		query = query.Where("draft = ?", *draft)
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, errStack.TrackErrorStack(err)
	}

	var questions []dao.Question
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&questions).Error; err != nil {
		return nil, 0, errStack.TrackErrorStack(err)
	}
	return questions, count, nil
}

// GetQuestionField возвращает документ одного rich-text поля вопроса.
func (b *Business) GetQuestionField(id uuid.UUID, field string) (rttypes.Document, error) {
	q, err := b.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	doc, ok := q.Field(field)
	if !ok {
		return nil, apierrors.ErrUnknownQuestionField.WithFormattedMessage(field)
	}
	return *doc, nil
}

// CommitQuestionField нормализует и сохраняет поле. Сохранение черновика (draft=true)
// и отправка (draft=false) отличаются только признаком вопроса.
func (b *Business) CommitQuestionField(id uuid.UUID, field string, doc rttypes.Document, draft bool) (*dao.Question, error) {
	q, err := b.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	target, ok := q.Field(field)
	if !ok {
		return nil, apierrors.ErrUnknownQuestionField.WithFormattedMessage(field)
	}

	doc = richtext.Normalize(doc)
	if field == dao.FieldTitle && doc.IsBlank() {
		return nil, apierrors.ErrQuestionTitleRequired
	}

	*target = doc
	q.Draft = draft
	if err := b.db.Model(q).Select(field, "draft", "updated_at").Updates(q).Error; err != nil {
		return nil, errStack.TrackErrorStack(err).Question(id).Field(field).Content(doc)
	}
	return q, nil
}
