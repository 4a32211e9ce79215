package business

import (
	"errors"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	errStack "github.com/aisa-it/assessment/internal/assessment/stack-error"
)

// AddOption добавляет вариант ответа в конец списка.
func (b *Business) AddOption(questionId uuid.UUID, content rttypes.Document, correct bool) (*dao.QuestionOption, error) {
	if err := b.questionExists(questionId); err != nil {
		return nil, err
	}

	option := dao.QuestionOption{
		ID:         dao.GenUUID(),
		QuestionId: questionId,
		Correct:    correct,
		Content:    richtext.Normalize(content),
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&dao.QuestionOption{}).
			Where("question_id = ?", questionId).
			Select("coalesce(max(position), -1)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		option.Position = maxPos + 1
		return tx.Create(&option).Error
	})
	if err != nil {
		return nil, errStack.TrackErrorStack(err).Question(questionId)
	}
	return &option, nil
}

// CommitOption сохраняет содержимое и признак правильности варианта.
func (b *Business) CommitOption(questionId, optionId uuid.UUID, content rttypes.Document, correct bool) (*dao.QuestionOption, error) {
	var option dao.QuestionOption
	if err := b.db.Where("question_id = ? and id = ?", questionId, optionId).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrOptionNotFound
		}
		return nil, errStack.TrackErrorStack(err).Question(questionId).Option(optionId)
	}

	option.Content = richtext.Normalize(content)
	option.Correct = correct
	if err := b.db.Model(&option).Select("content", "correct", "updated_at").Updates(&option).Error; err != nil {
		return nil, errStack.TrackErrorStack(err).Question(questionId).Option(optionId).Content(option.Content)
	}
	return &option, nil
}

// AddExample добавляет пример входных и выходных данных в конец списка.
func (b *Business) AddExample(questionId uuid.UUID, input, output rttypes.Document) (*dao.QuestionExample, error) {
	if err := b.questionExists(questionId); err != nil {
		return nil, err
	}

	example := dao.QuestionExample{
		ID:         dao.GenUUID(),
		QuestionId: questionId,
		Input:      richtext.Normalize(input),
		Output:     richtext.Normalize(output),
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&dao.QuestionExample{}).
			Where("question_id = ?", questionId).
			Select("coalesce(max(position), -1)").
			Scan(&maxPos).Error; err != nil {
			return err
		}
		example.Position = maxPos + 1
		return tx.Create(&example).Error
	})
	if err != nil {
		return nil, errStack.TrackErrorStack(err).Question(questionId)
	}
	return &example, nil
}

// CommitExample сохраняет пример.
func (b *Business) CommitExample(questionId, exampleId uuid.UUID, input, output rttypes.Document) (*dao.QuestionExample, error) {
	var example dao.QuestionExample
	if err := b.db.Where("question_id = ? and id = ?", questionId, exampleId).First(&example).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.ErrExampleNotFound
		}
		return nil, errStack.TrackErrorStack(err).Question(questionId).Example(exampleId)
	}

	example.Input = richtext.Normalize(input)
	example.Output = richtext.Normalize(output)
	if err := b.db.Model(&example).Select("input", "output", "updated_at").Updates(&example).Error; err != nil {
		return nil, errStack.TrackErrorStack(err).Question(questionId).Example(exampleId)
	}
	return &example, nil
}

func (b *Business) questionExists(id uuid.UUID) error {
	var count int64
	if err := b.db.Model(&dao.Question{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return errStack.TrackErrorStack(err).Question(id)
	}
	if count == 0 {
		return apierrors.ErrQuestionNotFound
	}
	return nil
}
