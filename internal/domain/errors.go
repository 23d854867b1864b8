package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags an Error with the failure class the transport layer maps to a status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindExternalService
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindExternalService:
		return "external_service"
	default:
		return "internal"
	}
}

// Provider names attached to external service failures.
const (
	ServiceDeepgram = "Deepgram"
	ServiceGroq     = "Groq"
)

// Failure codes carried by external service failures.
const (
	CodeProviderError      = "provider_error"
	CodeEmptyResponse      = "empty_response"
	CodeNoSpeech           = "no_speech"
	CodeInvalidJSON        = "invalid_json"
	CodeInvalidIntent      = "invalid_intent"
	CodeMultipleBusinesses = "multiple_businesses"
	CodeCircuitOpen        = "circuit_open"
)

// Error is the application error variant. Service and Code are only set for
// KindExternalService.
type Error struct {
	Kind    ErrorKind
	Service string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindExternalService && e.Service != "" {
		return fmt.Sprintf("%s error: %s", e.Service, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// NewExternalServiceError wraps a failure of an upstream provider.
func NewExternalServiceError(service, code, message string, err error) *Error {
	return &Error{
		Kind:    KindExternalService,
		Service: service,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AsError extracts the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) ErrorKind {
	if appErr, ok := AsError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsExternalService reports whether err is an external service failure with the given code.
// An empty code matches any external service failure.
func IsExternalService(err error, code string) bool {
	appErr, ok := AsError(err)
	if !ok || appErr.Kind != KindExternalService {
		return false
	}
	return code == "" || appErr.Code == code
}
