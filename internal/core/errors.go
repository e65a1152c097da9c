// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrNoSession    = errors.New("no session")
	ErrStoreDecrypt = errors.New("token store decrypt failed")
	ErrStoreCorrupt = errors.New("token store corrupt")
)

// ErrorKind classifies API failures into the user-facing taxonomy.
// The client never surfaces raw transport errors to callers.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindAuthInvalid
	KindAccountInactive
	KindValidation
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network_unreachable"
	case KindAuthInvalid:
		return "authentication_invalid"
	case KindAccountInactive:
		return "account_inactive"
	case KindValidation:
		return "validation_error"
	case KindServer:
		return "server_error"
	default:
		return "unknown"
	}
}

type AppError struct {
	Kind      ErrorKind
	Status    int
	Message   string
	Retryable bool
	cause     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewAppError(kind ErrorKind, status int, message string, cause error) *AppError {
	return &AppError{
		Kind:      kind,
		Status:    status,
		Message:   message,
		Retryable: kind == KindNetwork || kind == KindServer,
		cause:     cause,
	}
}

func NetworkError(cause error) *AppError {
	return NewAppError(
		KindNetwork,
		0,
		"unable to reach the TradeSignal servers, check your connection",
		cause,
	)
}

// ClassifyStatus maps an HTTP status and backend detail message into an
// AppError. The detail message is passed through verbatim for validation
// failures; auth and server failures get fixed user-facing messages.
func ClassifyStatus(status int, detail string) *AppError {
	switch {
	case status == 401:
		return NewAppError(
			KindAuthInvalid,
			status,
			"invalid email or password",
			ErrUnauthorized,
		)
	case status == 403:
		return NewAppError(
			KindAccountInactive,
			status,
			"account is inactive, contact support",
			ErrForbidden,
		)
	case status >= 500:
		return NewAppError(
			KindServer,
			status,
			"the server had a problem, try again in a moment",
			nil,
		)
	case status >= 400:
		msg := detail
		if msg == "" {
			msg = "request rejected"
		}
		return NewAppError(KindValidation, status, msg, ErrInvalidInput)
	default:
		return NewAppError(
			KindUnknown,
			status,
			fmt.Sprintf("unexpected response status %d", status),
			nil,
		)
	}
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

func IsUnauthorized(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind == KindAuthInvalid
	}
	return errors.Is(err, ErrUnauthorized)
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid input"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			messages = append(
				messages,
				fmt.Sprintf("%s is required", strings.ToLower(fieldErr.Field())),
			)
		case "email":
			messages = append(messages, "email address is not valid")
		case "min":
			messages = append(messages, fmt.Sprintf(
				"%s must be at least %s characters",
				strings.ToLower(fieldErr.Field()),
				fieldErr.Param(),
			))
		case "max":
			messages = append(messages, fmt.Sprintf(
				"%s must be at most %s characters",
				strings.ToLower(fieldErr.Field()),
				fieldErr.Param(),
			))
		default:
			messages = append(
				messages,
				fmt.Sprintf("%s is invalid", strings.ToLower(fieldErr.Field())),
			)
		}
	}

	return strings.Join(messages, ", ")
}
