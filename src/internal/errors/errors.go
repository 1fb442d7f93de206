// Package errors provides domain-specific error types for the blocklist tools.
//
// Every failure that reaches the operator is one of the codes below. Low-level
// I/O, DNS and crypto errors are wrapped at the package boundary so the CLI
// can print a single actionable message and choose an exit code.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration error: missing input files,
	// malformed key material or an unsupported signature algorithm.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeList indicates a failure reading or writing a blocklist or seed list.
	ErrCodeList ErrorCode = "LIST_ERROR"

	// ErrCodeResolver indicates the DNS resolver backend could not be set up.
	ErrCodeResolver ErrorCode = "RESOLVER_ERROR"

	// ErrCodeDiscovery indicates a discovery run could not start or was aborted.
	ErrCodeDiscovery ErrorCode = "DISCOVERY_ERROR"

	// ErrCodeSignature indicates a failure producing or storing a signature.
	ErrCodeSignature ErrorCode = "SIGNATURE_ERROR"

	// ErrCodeVerification indicates a signature that does not match the data.
	ErrCodeVerification ErrorCode = "VERIFICATION_FAILED"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Exit codes returned by the CLI.
const (
	ExitFailure            = 1
	ExitVerificationFailed = 2
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewListError creates a new list operation error.
func NewListError(message string, cause error) *Error {
	return Wrap(ErrCodeList, message, cause)
}

// NewResolverError creates a new resolver setup error.
func NewResolverError(message string, cause error) *Error {
	return Wrap(ErrCodeResolver, message, cause)
}

// NewDiscoveryError creates a new discovery run error.
func NewDiscoveryError(message string, cause error) *Error {
	return Wrap(ErrCodeDiscovery, message, cause)
}

// NewSignatureError creates a new signing error.
func NewSignatureError(message string, cause error) *Error {
	return Wrap(ErrCodeSignature, message, cause)
}

// NewVerificationError creates a new verification mismatch error.
func NewVerificationError(message string) *Error {
	return New(ErrCodeVerification, message)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}

// HasCode reports whether err or any error it wraps carries code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if HasCode(err, ErrCodeVerification) {
		return ExitVerificationFailed
	}
	return ExitFailure
}
