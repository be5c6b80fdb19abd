package domain

import (
	"errors"
	"fmt"
)

// Code identifies a failure reported by the identity provider or the
// message collection.
type Code string

const (
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeTooManyRequests   Code = "auth/too-many-requests"
	CodeNetworkFailed     Code = "auth/network-request-failed"
	CodeEmailAlreadyInUse Code = "auth/email-already-in-use"
	CodeWeakPassword      Code = "auth/weak-password"
	CodeUserTokenExpired  Code = "auth/user-token-expired"
	CodeUnauthenticated   Code = "unauthenticated"
	CodePermissionDenied  Code = "permission-denied"
	CodeInvalidArgument   Code = "invalid-argument"
	CodeUnavailable       Code = "unavailable"
	CodeInternal          Code = "internal"
)

// Failure is an error reported by an external collaborator.
type Failure struct {
	Code    Code
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return string(f.Code)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// NewFailure builds a Failure.
func NewFailure(code Code, format string, args ...any) *Failure {
	return &Failure{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the failure code from err, or "" if err carries none.
func CodeOf(err error) Code {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return ""
}

// Kind classifies errors for presentation.
type Kind int

const (
	// KindUnknown is anything unrecognized.
	KindUnknown Kind = iota
	// KindValidation is a local pre-flight check; it never reaches a collaborator.
	KindValidation
	// KindCredential covers unknown accounts, wrong or weak secrets and taken identifiers.
	KindCredential
	// KindRateLimit is excessive attempts.
	KindRateLimit
	// KindConnectivity is a network failure.
	KindConnectivity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindCredential:
		return "CredentialError"
	case KindRateLimit:
		return "RateLimitError"
	case KindConnectivity:
		return "ConnectivityError"
	default:
		return "UnknownError"
	}
}

// KindOf maps a failure code to its kind.
func KindOf(code Code) Kind {
	switch code {
	case CodeInvalidEmail, CodeUserNotFound, CodeWrongPassword, CodeEmailAlreadyInUse,
		CodeWeakPassword, CodeUserTokenExpired:
		return KindCredential
	case CodeTooManyRequests:
		return KindRateLimit
	case CodeNetworkFailed, CodeUnavailable:
		return KindConnectivity
	default:
		return KindUnknown
	}
}

// Error is a classified error carrying the message shown to the user.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError builds a local validation error.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Classify wraps a collaborator error with its kind and a user-facing
// message.
func Classify(err error, message string) *Error {
	code := CodeOf(err)
	return &Error{Kind: KindOf(code), Code: code, Message: message, Err: err}
}

// IsKind reports whether err is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
