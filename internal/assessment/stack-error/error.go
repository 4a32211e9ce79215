// Пакет stack_error накапливает место возникновения ошибки бизнес-слоя и контекст для лога.
//
// Контекст описывает, какое значение вопроса не удалось сохранить: идентификаторы
// вопроса, варианта или примера, имя поля и краткую сводку rich-text документа.
package stack_error

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"unicode/utf8"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aisa-it/assessment/internal/assessment/richtext/rttypes"
)

// Ключи контекста.
const (
	KeyQuestion = "question_id"
	KeyOption   = "option_id"
	KeyExample  = "example_id"
	KeyField    = "field"
	KeyContent  = "content"
)

// contentPreviewRunes - длина текста документа в контексте ошибки.
const contentPreviewRunes = 64

type TrackerError struct {
	Context map[string]any
	// Frames - места вызова, от первого оборачивания к последнему.
	Frames []string
	cause  error
}

// TrackErrorStack оборачивает ошибку, добавляя в стек файл и строку вызова.
// Повторный вызов для уже обернутой ошибки дополняет ее стек.
func TrackErrorStack(err error) *TrackerError {
	var te *TrackerError
	if !errors.As(err, &te) {
		te = &TrackerError{Context: make(map[string]any), cause: err}
	}
	te.Frames = append(te.Frames, callerFrame(2, err))
	return te
}

// AddContext добавляет атрибут лога. Первое значение ключа не перезаписывается:
// ближайший к источнику ошибки вызов знает контекст точнее.
func (te *TrackerError) AddContext(k string, v any) *TrackerError {
	if _, ok := te.Context[k]; !ok {
		te.Context[k] = v
	}
	return te
}

func (te *TrackerError) Question(id uuid.UUID) *TrackerError {
	return te.AddContext(KeyQuestion, id.String())
}

func (te *TrackerError) Option(id uuid.UUID) *TrackerError {
	return te.AddContext(KeyOption, id.String())
}

func (te *TrackerError) Example(id uuid.UUID) *TrackerError {
	return te.AddContext(KeyExample, id.String())
}

// Field - имя rich-text поля вопроса.
func (te *TrackerError) Field(name string) *TrackerError {
	return te.AddContext(KeyField, name)
}

// Content добавляет сводку документа: число блоков, длину и начало текста.
// Документ целиком в лог не попадает.
func (te *TrackerError) Content(doc rttypes.Document) *TrackerError {
	text := doc.PlainText()
	preview := text
	if utf8.RuneCountInString(text) > contentPreviewRunes {
		preview = string([]rune(text)[:contentPreviewRunes]) + "…"
	}
	return te.AddContext(KeyContent, slog.GroupValue(
		slog.Int("blocks", len(doc)),
		slog.Int("runes", utf8.RuneCountInString(text)),
		slog.String("preview", preview),
	))
}

// AddErr дописывает в стек место вызова с текстом сопутствующей ошибки.
func (te *TrackerError) AddErr(err error) *TrackerError {
	te.Frames = append(te.Frames, callerFrame(2, err))
	return te
}

// QuestionID возвращает вопрос из контекста ошибки, если он был указан.
func QuestionID(err error) (string, bool) {
	var te *TrackerError
	if !errors.As(err, &te) {
		return "", false
	}
	id, ok := te.Context[KeyQuestion].(string)
	return id, ok
}

// GetError пишет в лог стек и контекст ошибки вместе с запросом, если он есть.
func GetError(c echo.Context, err error) {
	var trackerError *TrackerError
	var attrs []any

	if errors.As(err, &trackerError) {
		attrs = trackerError.attrs()
		attrs = append(attrs,
			slog.String("err", err.Error()),
			slog.Any("stack", trackerError.Frames))
	} else {
		attrs = []any{slog.String("raw_error", err.Error())}
	}

	if c != nil {
		attrs = append(attrs,
			slog.String("method", c.Request().Method),
			slog.String("url", c.Request().URL.String()))
	}

	slog.With(attrs...).Error("stack error")
}

func (te *TrackerError) Error() string {
	if te.cause != nil {
		return te.cause.Error()
	}
	return "TrackerError"
}

func (te *TrackerError) Unwrap() error {
	return te.cause
}

// attrs возвращает контекст, упорядоченный по ключу.
func (te *TrackerError) attrs() []any {
	res := make([]any, 0, len(te.Context))
	for _, k := range slices.Sorted(maps.Keys(te.Context)) {
		switch v := te.Context[k].(type) {
		case slog.Value:
			res = append(res, slog.Attr{Key: k, Value: v})
		default:
			res = append(res, slog.Any(k, v))
		}
	}
	return res
}

func callerFrame(skip int, err error) string {
	_, path, no, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	_, file := filepath.Split(path)
	return fmt.Sprintf("%s:%d %s", file, no, err.Error())
}
