package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidURL       = errors.New("invalid URL")
	ErrInvalidAlias     = errors.New("invalid alias")
	ErrAliasTaken       = errors.New("alias already taken")
	ErrShortCodeExists  = errors.New("short code already exists")
	ErrInvalidLinkGroup = errors.New("invalid link group")
)

// ValidationError describes rejected input. Kind is one of the sentinels above
// so callers can use errors.Is on the concrete reason.
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func InvalidURL(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Kind: ErrInvalidURL}
}

func InvalidAlias(message string) *ValidationError {
	return &ValidationError{Field: "customUrl", Message: message, Kind: ErrInvalidAlias}
}

func InvalidGroup(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Kind: ErrInvalidLinkGroup}
}

type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

const (
	CodeDatabase            = "DATABASE_ERROR"
	CodeShortCodeGeneration = "SHORT_CODE_GENERATION"
)

// StoreError wraps a failure of the persistent store. It always maps to 500.
func StoreError(message string, cause error) *BusinessError {
	return NewBusinessError(CodeDatabase, message, cause)
}

// IsValidationError проверяет является ли ошибка ошибкой валидации
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

// GetBusinessError извлекает BusinessError из ошибки
func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}
