// pkg/idp_err/classification.go
//
// Error classification with exit codes. Remote failures are classified by the
// directory back ends; the command layer only reads the category.

package idp_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategoryService - generic identity service failure (exit 1)
	CategoryService ErrorCategory = iota
	// CategoryValidation - malformed input, locally or remotely rejected (exit 2)
	CategoryValidation
	// CategoryNotFound - pool or user does not exist (exit 1)
	CategoryNotFound
	// CategoryAccessDenied - caller lacks permission (exit 1)
	CategoryAccessDenied
	// CategoryAlreadyExists - username already taken (exit 1)
	CategoryAlreadyExists
	// CategoryUser - operator interrupted (exit 130)
	CategoryUser
	// CategoryInternal - bugs in idpuser itself (exit 3)
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryNotFound:
		return "not_found"
	case CategoryAccessDenied:
		return "access_denied"
	case CategoryAlreadyExists:
		return "already_exists"
	case CategoryUser:
		return "user"
	case CategoryInternal:
		return "internal"
	default:
		return "service"
	}
}

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}
	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryUser:
		return 130
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// GetExitCode extracts exit code from any error.
// Returns 0 for nil and for expected user errors, 1 for unclassified errors.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}
	return 1
}

// CategoryOf returns the category of the outermost classified error in the
// chain, or CategoryService when none is present.
func CategoryOf(err error) ErrorCategory {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategoryService
}

// Is reports whether err carries the given category.
func Is(err error, category ErrorCategory) bool {
	var classified *ClassifiedError
	return errors.As(err, &classified) && classified.Category == category
}

// New builds a classified error around a remote failure.
func New(category ErrorCategory, message string, cause error) error {
	return &ClassifiedError{
		Category:    category,
		Message:     message,
		Cause:       cause,
		Remediation: remediationFor(category),
	}
}

// NewValidationError creates an error for input validation failures
func NewValidationError(message string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Remediation: remediation,
	}
}

// NewInternalError creates an error for idpuser bugs
func NewInternalError(message string, cause error) error {
	return &ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
		Remediation: []string{
			"This is likely a bug in idpuser",
			"Include this error message and steps to reproduce when reporting it",
		},
	}
}

// NewUserCancelledError creates an error for an interrupted session
func NewUserCancelledError(operation string) error {
	return &ClassifiedError{
		Category:    CategoryUser,
		Message:     fmt.Sprintf("Operation interrupted by user: %s", operation),
		Remediation: []string{"Run the command again to retry"},
	}
}

func remediationFor(category ErrorCategory) []string {
	switch category {
	case CategoryNotFound:
		return []string{"Check the user pool ID and the region the client is configured for"}
	case CategoryAccessDenied:
		return []string{"Check that the configured credentials carry the admin permissions for this pool"}
	case CategoryAlreadyExists:
		return []string{"Choose a different username or inspect the existing user"}
	case CategoryValidation:
		return []string{"Check the username format and the attribute names and values"}
	default:
		return nil
	}
}
