package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeConfiguration     ErrCode = "CONFIGURATION"
	ErrCodeInvalidQuery      ErrCode = "INVALID_QUERY"
	ErrCodeMemberNotFound    ErrCode = "MEMBER_NOT_FOUND"
	ErrCodeSourceUnavailable ErrCode = "SOURCE_UNAVAILABLE"
	ErrCodeNoVotesFound      ErrCode = "NO_VOTES_FOUND"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: message,
	}
}

// NewInvalidQueryError creates a new invalid query error for a specific field
func NewInvalidQueryError(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidQuery,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// NewMemberNotFoundError creates a new member not found error
func NewMemberNotFoundError(lastName, state string) *AppError {
	return &AppError{
		Code:    ErrCodeMemberNotFound,
		Message: fmt.Sprintf("no member %q found for state %s", lastName, state),
	}
}

// NewSourceUnavailableError creates a new source unavailable error
func NewSourceUnavailableError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeSourceUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewNoVotesFoundError creates a new no votes found error
func NewNoVotesFoundError(lastName string, congresses []int) *AppError {
	return &AppError{
		Code:    ErrCodeNoVotesFound,
		Message: fmt.Sprintf("no votes found for %s in congresses %v", lastName, congresses),
	}
}

func hasCode(err error, code ErrCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsConfiguration checks if the error is a configuration error
func IsConfiguration(err error) bool { return hasCode(err, ErrCodeConfiguration) }

// IsInvalidQuery checks if the error is an invalid query error
func IsInvalidQuery(err error) bool { return hasCode(err, ErrCodeInvalidQuery) }

// IsMemberNotFound checks if the error is a member not found error
func IsMemberNotFound(err error) bool { return hasCode(err, ErrCodeMemberNotFound) }

// IsSourceUnavailable checks if the error is a source unavailable error
func IsSourceUnavailable(err error) bool { return hasCode(err, ErrCodeSourceUnavailable) }

// IsNoVotesFound checks if the error is a no votes found error
func IsNoVotesFound(err error) bool { return hasCode(err, ErrCodeNoVotesFound) }
