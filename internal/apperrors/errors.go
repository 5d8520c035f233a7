// Package apperrors содержит типизированные ошибки сервисного слоя.
// Обработчики отображают Status в HTTP-код, Message уходит клиенту,
// Err остаётся в логах.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// ServiceUnavailable - отказ внешней зависимости, клиенту имеет смысл повторить позже
func ServiceUnavailable(message string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: message}
}

// Internal оборачивает неожиданную ошибку. Причина не утекает клиенту.
func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// From извлекает *Error из цепочки err. Всё прочее трактуется как Internal
// с обобщённым сообщением.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Внутренняя ошибка сервера. Попробуйте позже.", err)
}
