package services

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound       = errors.New("report not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrChatNotFound         = errors.New("chat not found")
	ErrForbidden            = errors.New("forbidden")
)

// ValidationError describes input the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// DependencyError wraps a failure of the store or another backing service.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}
