// pkg/idp_err/expected.go

package idp_err

import (
	"context"
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// UserError is an operator-correctable condition. Commands that fail with it
// still exit 0.
type UserError struct {
	cause error
}

func (e *UserError) Error() string { return e.cause.Error() }
func (e *UserError) Unwrap() error { return e.cause }

// NewExpectedError marks err as expected and logs it at warn level.
func NewExpectedError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	otelzap.Ctx(ctx).Warn("Expected user error", zap.Error(err))
	return &UserError{cause: err}
}

// IsExpectedUserError reports whether err (or anything it wraps) is a UserError.
func IsExpectedUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}
