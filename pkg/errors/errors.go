package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Plugin errors
	ErrPluginNotFound ErrorCode = "PLUGIN_NOT_FOUND"
	ErrPluginInvalid  ErrorCode = "PLUGIN_INVALID"
	ErrPluginApply    ErrorCode = "PLUGIN_APPLY"

	// Mod chain errors
	ErrTreeFrozen     ErrorCode = "TREE_FROZEN"
	ErrChainExecution ErrorCode = "CHAIN_EXECUTION"

	// Format errors
	ErrMalformedInput ErrorCode = "MALFORMED_INPUT"
	ErrEncode         ErrorCode = "ENCODE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"

	// Credential errors
	ErrProfileMalformed ErrorCode = "PROFILE_MALFORMED"
)

// PrebuildError represents a structured error with code and details
type PrebuildError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PrebuildError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PrebuildError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PrebuildError) Is(target error) bool {
	var targetErr *PrebuildError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PrebuildError with the given code and message
func New(code ErrorCode, message string) *PrebuildError {
	return &PrebuildError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PrebuildError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PrebuildError {
	return &PrebuildError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PrebuildError
func Wrap(err error, code ErrorCode, message string) *PrebuildError {
	if err == nil {
		return nil
	}
	return &PrebuildError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PrebuildError {
	if err == nil {
		return nil
	}
	return &PrebuildError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PrebuildError) WithDetail(key string, value interface{}) *PrebuildError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PrebuildError) WithDetails(details map[string]interface{}) *PrebuildError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var pbErr *PrebuildError
		if !errors.As(err, &pbErr) {
			return false
		}
		if pbErr.Code == code {
			return true
		}
		err = pbErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not a PrebuildError
func GetErrorCode(err error) ErrorCode {
	var pbErr *PrebuildError
	if errors.As(err, &pbErr) {
		return pbErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PrebuildError
func GetErrorDetails(err error) map[string]interface{} {
	var pbErr *PrebuildError
	if errors.As(err, &pbErr) {
		return pbErr.Details
	}
	return nil
}
