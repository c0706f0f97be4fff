package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind категория ошибки оцифровки
type ErrorKind string

const (
	KindImageLoad      ErrorKind = "image_load"
	KindEmptyROI       ErrorKind = "empty_roi"
	KindDivisionByZero ErrorKind = "division_by_zero"
	KindProcessing     ErrorKind = "processing"
	KindValidation     ErrorKind = "validation"
	KindTimeout        ErrorKind = "timeout"
	KindNotFound       ErrorKind = "not_found"
)

// AppError структурированная ошибка приложения
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap возвращает исходную ошибку
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewImageLoadError изображение отсутствует или не декодируется
func NewImageLoadError(message string, cause error) *AppError {
	return &AppError{Kind: KindImageLoad, Message: message, Cause: cause}
}

// NewEmptyROIError область анализа вырождена
func NewEmptyROIError(message string) *AppError {
	return &AppError{Kind: KindEmptyROI, Message: message}
}

// NewDivisionByZeroError точки калибровки на одной высоте
func NewDivisionByZeroError(message string) *AppError {
	return &AppError{Kind: KindDivisionByZero, Message: message}
}

// NewProcessingError любая другая ошибка обработки
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{Kind: KindProcessing, Message: message, Cause: cause}
}

// NewValidationError некорректные входные данные
func NewValidationError(message string, cause error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Cause: cause}
}

// NewTimeoutError анализ не уложился в отведённое время
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{Kind: KindTimeout, Message: message, Cause: cause}
}

// NewNotFoundError запись не найдена
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Cause: cause}
}

// IsKind проверяет категорию ошибки, в том числе внутри цепочки обёрток
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetStatusCode сопоставляет ошибку HTTP-статусу
func GetStatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindImageLoad, KindEmptyROI, KindDivisionByZero, KindProcessing:
		return http.StatusUnprocessableEntity
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
