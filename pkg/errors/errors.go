// Package errors provides structured error handling for songbook
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/memtensor/songbook/pkg/types"
)

// ErrorCode represents specific error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidURL   ErrorCode = "INVALID_URL"

	// Extraction errors
	ErrCodeUnrecognizedFormat ErrorCode = "UNRECOGNIZED_FORMAT"
	ErrCodeNoContent          ErrorCode = "NO_CONTENT"

	// External service errors
	ErrCodeFetchFailed    ErrorCode = "FETCH_FAILED"
	ErrCodeSearchFailed   ErrorCode = "SEARCH_FAILED"
	ErrCodeSearchDisabled ErrorCode = "SEARCH_DISABLED"

	// Configuration errors
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"

	// System errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// SongbookError represents a structured error in songbook
type SongbookError struct {
	Type    types.ErrorType        `json:"type"`
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SongbookError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (caused by: %v)", e.Code, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *SongbookError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SongbookError) WithDetail(key string, value interface{}) *SongbookError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatus maps the error code onto an HTTP status for the API layer
func (e *SongbookError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidURL:
		return http.StatusBadRequest
	case ErrCodeUnrecognizedFormat, ErrCodeNoContent:
		return http.StatusUnprocessableEntity
	case ErrCodeFetchFailed, ErrCodeSearchFailed:
		return http.StatusBadGateway
	case ErrCodeSearchDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewSongbookError creates a new songbook error
func NewSongbookError(errType types.ErrorType, code ErrorCode, message string) *SongbookError {
	return &SongbookError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// NewSongbookErrorWithCause creates a new songbook error with a cause
func NewSongbookErrorWithCause(errType types.ErrorType, code ErrorCode, message string, cause error) *SongbookError {
	return &SongbookError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Validation error constructors
func NewInvalidInputError(message string) *SongbookError {
	return NewSongbookError(types.ErrorTypeValidation, ErrCodeInvalidInput, message)
}

func NewMissingFieldError(field string) *SongbookError {
	return NewSongbookError(types.ErrorTypeValidation, ErrCodeMissingField,
		fmt.Sprintf("missing required field: %s", field)).WithDetail("field", field)
}

func NewInvalidURLError(rawURL string, cause error) *SongbookError {
	return NewSongbookErrorWithCause(types.ErrorTypeValidation, ErrCodeInvalidURL,
		fmt.Sprintf("invalid url: %s", rawURL), cause).WithDetail("url", rawURL)
}

// Extraction error constructors

// NewUnrecognizedFormatError reports a page whose markup no strategy understood
func NewUnrecognizedFormatError(sourceURL string) *SongbookError {
	return NewSongbookError(types.ErrorTypeValidation, ErrCodeUnrecognizedFormat,
		"Could not extract chords/lyrics from this page.").WithDetail("source_url", sourceURL)
}

// NewNoContentError reports a strategy that matched but left zero usable lines
func NewNoContentError(sourceURL, strategy string) *SongbookError {
	return NewSongbookError(types.ErrorTypeValidation, ErrCodeNoContent,
		"No chord or lyric lines found on this page.").
		WithDetail("source_url", sourceURL).WithDetail("strategy", strategy)
}

// External service error constructors

// NewFetchStatusError reports a non-2xx response
func NewFetchStatusError(rawURL string, status int) *SongbookError {
	return NewSongbookError(types.ErrorTypeExternal, ErrCodeFetchFailed,
		fmt.Sprintf("Fetch failed: %d", status)).
		WithDetail("url", rawURL).WithDetail("status", status)
}

// NewFetchError reports a transport failure
func NewFetchError(rawURL string, cause error) *SongbookError {
	return NewSongbookErrorWithCause(types.ErrorTypeExternal, ErrCodeFetchFailed,
		cause.Error(), cause).WithDetail("url", rawURL)
}

func NewSearchError(message string, cause error) *SongbookError {
	return NewSongbookErrorWithCause(types.ErrorTypeExternal, ErrCodeSearchFailed, message, cause)
}

// NewSearchDisabledError reports a search attempted with search.enabled off
func NewSearchDisabledError() *SongbookError {
	return NewSongbookError(types.ErrorTypeValidation, ErrCodeSearchDisabled, "online search is disabled")
}

// Configuration error constructors
func NewConfigInvalidError(message string, cause error) *SongbookError {
	return NewSongbookErrorWithCause(types.ErrorTypeValidation, ErrCodeConfigInvalid, message, cause)
}

func NewConfigNotFoundError(configPath string) *SongbookError {
	return NewSongbookError(types.ErrorTypeNotFound, ErrCodeConfigNotFound,
		fmt.Sprintf("configuration file not found: %s", configPath)).WithDetail("config_path", configPath)
}

// System error constructors
func NewInternalErrorWithCause(message string, cause error) *SongbookError {
	return NewSongbookErrorWithCause(types.ErrorTypeInternal, ErrCodeInternal, message, cause)
}

// GetSongbookError extracts a SongbookError from anywhere in err's chain
func GetSongbookError(err error) *SongbookError {
	var sbErr *SongbookError
	if stderrors.As(err, &sbErr) {
		return sbErr
	}
	return nil
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	sbErr := GetSongbookError(err)
	return sbErr != nil && sbErr.Code == code
}

// UserMessage returns the message meant for end users. Structured errors
// yield their Message without code decoration.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if sbErr := GetSongbookError(err); sbErr != nil {
		return sbErr.Message
	}
	return err.Error()
}
