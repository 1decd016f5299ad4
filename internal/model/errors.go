package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrReference        = errors.New("unresolved reference")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError ошибка конкретного поля формы
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError отсутствующие или некорректные поля входных данных
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError запись с указанным ID отсутствует в коллекции
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ReferenceError внешний ключ указывает на несуществующую запись
type ReferenceError struct {
	Entity string
	ID     string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Entity, e.ID)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReference }

// IsValidation проверяет является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
