package core

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FallbackMessage is shown when the server did not say what went wrong.
const FallbackMessage = "Something went wrong"

var (
	// ErrAuthExpired marks a request rejected with 401. The session has already been evicted
	// when a caller sees it; navigating back to the public entry route is up to the caller.
	ErrAuthExpired = errors.New("authentication expired")
	ErrTimeout     = errors.New("request timed out")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
		}
		return ""
	}
	return err.Err.Error()
}

// TranslateValidationErrors turns validator.ValidationErrors into a *ValidationError
// carrying one translated message per field. Other errors are returned as they are.
func TranslateValidationErrors(err error, translator ut.Translator) error {
	vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return NewValidationError(nil, flds...)
}

// APIError is the single error shape every remote call fails with.
type APIError struct {
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (err *APIError) Error() string { return err.Message }

func (err *APIError) Unwrap() error { return err.Err }

// IsAuthExpired reports whether err comes from a request the server rejected with 401.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsTimeout reports whether err comes from a request that exceeded the timeout bound.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// StatusCode returns the HTTP status carried by an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
