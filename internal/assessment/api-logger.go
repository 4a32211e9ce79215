// Утилиты возврата ошибок API сервиса вопросов.
// Ошибки отдаются клиенту в едином формате DefinedError, неизвестные ошибки логируются с контекстом запроса.
package assessment

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/aisa-it/assessment/internal/assessment/apierrors"
	errStack "github.com/aisa-it/assessment/internal/assessment/stack-error"
)

// Возврат ошибки 400 с универсальным сообщением
func EError(c echo.Context, err error) error {
	var definedErr apierrors.DefinedError
	if errors.As(err, &definedErr) {
		return EErrorDefined(c, definedErr)
	}

	var trackerErr *errStack.TrackerError
	if errors.As(err, &trackerErr) {
		errStack.GetError(c, err)
		return EErrorDefined(c, apierrors.ErrGeneric)
	}

	if err == nil {
		slog.Error("Unknown API error",
			"method", c.Request().Method,
			"url", c.Request().URL,
			getCallerFile(),
		)
	} else {
		slog.Error("API error",
			"err", err,
			"method", c.Request().Method,
			"url", c.Request().URL,
			getCallerFile(),
		)
	}
	return EErrorDefined(c, apierrors.ErrGeneric)
}

// Возврат ошибки <status> с сообщением ошибки
func EErrorMsgStatus(c echo.Context, err error, status int) error {
	switch status {
	case http.StatusRequestEntityTooLarge:
		return EErrorDefined(c, apierrors.ErrEntityToLarge)
	case http.StatusMethodNotAllowed:
		return EErrorDefined(c, apierrors.ErrMethodNotAllow)
	}

	er := apierrors.ErrGeneric
	er.StatusCode = status
	if err == nil {
		slog.Error("Unknown API error",
			"method", c.Request().Method,
			slog.Int("status", status),
			"url", c.Request().URL,
			getCallerFile(),
		)
		return EErrorDefined(c, er)
	}

	// Ignore log 404 error
	if status != http.StatusNotFound {
		slog.Error("API error",
			"err", err,
			"method", c.Request().Method,
			slog.Int("status", status),
			"url", c.Request().URL,
			getCallerFile(),
		)
	}
	er.Err = err.Error()
	return EErrorDefined(c, er)
}

// EErrorDefined возвращает JSON-ответ с кодом статуса и сообщением ошибки.
// Если код статуса не определен, используется 400 Bad Request.
func EErrorDefined(c echo.Context, err apierrors.DefinedError) error {
	if http.StatusText(err.StatusCode) == "" {
		err.StatusCode = http.StatusBadRequest
	}
	return c.JSON(err.StatusCode, err)
}

func getCallerFile() slog.Attr {
	_, path, no, ok := runtime.Caller(2)
	if !ok {
		return slog.Attr{}
	}
	_, file := filepath.Split(path)
	return slog.String("caller", fmt.Sprintf("%s:%d", file, no))
}
