// pkg/idp_io/context.go

package idp_io

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RuntimeContext carries the per-command context, logger and span.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	Component  string
	TraceID    string
	Attributes map[string]string
}

// NewContext starts the command span and scopes the logger to the caller.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	ctx, span := telemetry.Start(parent, cmdName)

	traceID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		traceID = logger.GenerateTraceID()
	}

	comp := resolveCallContext(3)
	log := logger.GetLogger().With(
		zap.String("component", comp),
		zap.String("action", cmdName),
		zap.String("trace_id", traceID),
	).Named(comp)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        log,
		Timestamp:  time.Now(),
		Component:  comp,
		Command:    cmdName,
		TraceID:    traceID,
		Attributes: make(map[string]string),
	}
}

// HandlePanic recovers a panic in the command body and reports it as an
// internal error. It must be deferred directly.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		rc.Log.Error("Panic recovered", zap.Any("panic", r), zap.Stack("stack"))
		*errPtr = idp_err.NewInternalError(rc.Command+" panicked", cerr.AssertionFailedf("panic: %v", r))
	}
}

// End logs the outcome, records it on the span, and flushes.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)

	if err == nil {
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	} else {
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(err))
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, err.Error())
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("error_type", classifyError(err)),
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)

	_ = logger.Sync()
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if idp_err.IsExpectedUserError(err) {
		return "user"
	}
	return idp_err.CategoryOf(err).String()
}

// resolveCallContext names the package directory of the caller skip frames up.
func resolveCallContext(skip int) string {
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	parts := strings.Split(file, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return strings.TrimSuffix(parts[0], ".go")
}
