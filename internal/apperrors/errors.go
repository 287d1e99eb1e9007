package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error for HTTP mapping and retry decisions.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindDatabase
	KindScoring
	KindMessaging
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func NewValidation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewDatabase(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDatabase, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewScoring(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindScoring, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewMessaging(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindMessaging, Message: fmt.Sprintf(format, args...), Err: err}
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsDatabase(err error) bool   { return IsKind(err, KindDatabase) }
