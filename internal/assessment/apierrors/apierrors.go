// Пакет содержит определения ошибок API сервиса вопросов. Каждая ошибка имеет код,
// статус HTTP и описание на двух языках, что позволяет клиенту показать пользователю
// понятное сообщение. Также включает helper-функцию для форматирования сообщений.
//
// Основные возможности:
//   - Ошибки rich-text команд и запросов редактора.
//   - Ошибки работы с вопросами, вариантами ответов и примерами.
//   - Общие ошибки валидации и сервера.
//   - Форматирование сообщений об ошибках с использованием аргументов.
package apierrors

import (
	"fmt"
	"net/http"
	"strings"
)

type DefinedError struct {
	Code       int    `json:"code"`
	StatusCode int    `json:"-"`
	Err        string `json:"error"`
	RuErr      string `json:"ru_error,omitempty"`
}

func (e DefinedError) Error() string {
	return e.Err
}

var (
	// 1*** - rich text errors
	ErrUnknownMark       = DefinedError{Code: 1001, StatusCode: http.StatusBadRequest, Err: "unknown mark %s", RuErr: "Неизвестный вид форматирования %s"}
	ErrUnknownBlockKind  = DefinedError{Code: 1002, StatusCode: http.StatusBadRequest, Err: "unknown block kind %s", RuErr: "Неизвестный вид блока %s"}
	ErrTargetRequired    = DefinedError{Code: 1003, StatusCode: http.StatusBadRequest, Err: "command target is required", RuErr: "Не выбран фрагмент текста"}
	ErrDocumentRequired  = DefinedError{Code: 1004, StatusCode: http.StatusBadRequest, Err: "document or html is required", RuErr: "Необходимо передать документ или HTML"}
	ErrUnsupportedFormat = DefinedError{Code: 1005, StatusCode: http.StatusBadRequest, Err: "unsupported format %s", RuErr: "Формат %s не поддерживается"}
	ErrInvalidTarget     = DefinedError{Code: 1006, StatusCode: http.StatusBadRequest, Err: "command target does not match the document", RuErr: "Выделенный фрагмент не найден в документе"}

	// 2*** - question errors
	ErrQuestionNotFound      = DefinedError{Code: 2001, StatusCode: http.StatusNotFound, Err: "question not found", RuErr: "Вопрос не найден"}
	ErrQuestionTitleRequired = DefinedError{Code: 2002, StatusCode: http.StatusBadRequest, Err: "question title cannot be empty", RuErr: "Заголовок вопроса не может быть пустым"}
	ErrUnknownQuestionField  = DefinedError{Code: 2003, StatusCode: http.StatusBadRequest, Err: "unknown question field %s", RuErr: "Неизвестное поле вопроса %s"}
	ErrOptionNotFound        = DefinedError{Code: 2004, StatusCode: http.StatusNotFound, Err: "option not found", RuErr: "Вариант ответа не найден"}
	ErrExampleNotFound       = DefinedError{Code: 2005, StatusCode: http.StatusNotFound, Err: "example not found", RuErr: "Пример не найден"}

	// 9*** - validation and other errors
	ErrGeneric        = DefinedError{Code: 9000, StatusCode: http.StatusBadRequest, Err: "Something went wrong. Please try again later or contact the support team.", RuErr: "Что-то пошло не так. Повторите попытку позже или обратитесь в службу поддержки"}
	ErrInvalidID      = DefinedError{Code: 9001, StatusCode: http.StatusBadRequest, Err: "invalid ID", RuErr: "Указан неверный ID"}
	ErrBadRequest     = DefinedError{Code: 9002, StatusCode: http.StatusBadRequest, Err: "incorrect format of transmitted data", RuErr: "Неверный формат переданных данных"}
	ErrValidation     = DefinedError{Code: 9003, StatusCode: http.StatusBadRequest, Err: "validation failed: %s", RuErr: "Ошибка проверки данных: %s"}
	ErrEntityToLarge  = DefinedError{Code: 9004, StatusCode: http.StatusRequestEntityTooLarge, Err: "request entity too large", RuErr: "Превышен допустимый размер запроса"}
	ErrNotFound       = DefinedError{Code: 9005, StatusCode: http.StatusNotFound, Err: "not found", RuErr: "Не найдено"}
	ErrMethodNotAllow = DefinedError{Code: 9006, StatusCode: http.StatusMethodNotAllowed, Err: "method not allowed", RuErr: "Метод не поддерживается"}
)

// Catalogue перечисляет все ошибки в порядке кодов. Используется генератором документации.
func Catalogue() []DefinedError {
	return []DefinedError{
		ErrUnknownMark, ErrUnknownBlockKind, ErrTargetRequired, ErrDocumentRequired, ErrUnsupportedFormat, ErrInvalidTarget,
		ErrQuestionNotFound, ErrQuestionTitleRequired, ErrUnknownQuestionField, ErrOptionNotFound, ErrExampleNotFound,
		ErrGeneric, ErrInvalidID, ErrBadRequest, ErrValidation, ErrEntityToLarge, ErrNotFound, ErrMethodNotAllow,
	}
}

func (e DefinedError) WithFormattedMessage(args ...interface{}) DefinedError {
	if len(args) > 0 {
		e.Err = fmt.Sprintf(e.Err, args...)
		e.RuErr = fmt.Sprintf(e.RuErr, args...)
	} else {
		e.Err = strings.Replace(e.Err, "%s", "", -1)
		e.RuErr = strings.Replace(e.RuErr, "%s", "", -1)
	}
	return e
}
