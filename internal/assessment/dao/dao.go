// DAO (Data Access Object) вопросов. Rich-text поля хранятся HTML-строками в текстовых
// колонках: rttypes.Document сам сериализуется при записи и разбирается при чтении.
//
// Основные возможности:
//   - Модели вопроса, вариантов ответа и примеров.
//   - Нормализация всех rich-text полей перед сохранением.
//   - Преобразование моделей в DTO с HTML и текстовым превью.
package dao

import (
	"github.com/gofrs/uuid"

	"github.com/aisa-it/assessment/internal/assessment/richtext/htmlcodec"
	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
	"github.com/aisa-it/assessment/internal/assessment/dto"
)

// PreviewLength - длина текстового превью в списках вопросов, задается из конфигурации.
var PreviewLength = 200

// GenUUID генерирует уникальный идентификатор в формате UUID.
func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// AllModels перечисляет модели для миграции.
func AllModels() []any {
	return []any{&Question{}, &QuestionOption{}, &QuestionExample{}}
}

// RichField возвращает поле для клиента: документ и его HTML.
func RichField(doc rttypes.Document) dto.RichField {
	return dto.RichField{Document: doc, HTML: htmlcodec.SerializeDocument(doc)}
}
