// Валидация запросов API: виды разметки, виды блоков и имена rich-text полей вопроса.
package assessment

import (
	"slices"

	"github.com/go-playground/validator"

	"github.com/aisa-it/assessment/internal/assessment/dao"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	if err := v.RegisterValidation("mark", markValidator); err != nil {
		return nil
	}

	if err := v.RegisterValidation("blockKind", blockKindValidator); err != nil {
		return nil
	}

	if err := v.RegisterValidation("questionField", questionFieldValidator); err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		_, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return err
	}
	return nil
}

func markValidator(fl validator.FieldLevel) bool {
	return rttypes.Mark(fl.Field().String()).Valid()
}

func blockKindValidator(fl validator.FieldLevel) bool {
	return rttypes.BlockKind(fl.Field().String()).Valid()
}

func questionFieldValidator(fl validator.FieldLevel) bool {
	return slices.Contains(dao.QuestionFields, fl.Field().String())
}
