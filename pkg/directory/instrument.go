// pkg/directory/instrument.go

package directory

import (
	"context"
	"time"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/telemetry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type instrumented struct {
	next Directory
}

// Instrument wraps dir so every call gets a span and a structured log line.
func Instrument(dir Directory) Directory {
	return &instrumented{next: dir}
}

func (d *instrumented) DescribeUserPool(ctx context.Context, poolID string) (schema []attributes.SchemaAttribute, err error) {
	ctx, finish := d.start(ctx, "DescribeUserPool", poolID, "")
	defer func() { finish(err, zap.Int("schema_attributes", len(schema))) }()
	return d.next.DescribeUserPool(ctx, poolID)
}

func (d *instrumented) CreateUser(ctx context.Context, poolID, username string) (email string, err error) {
	ctx, finish := d.start(ctx, "AdminCreateUser", poolID, username)
	defer func() { finish(err, zap.String("canonical_username", email)) }()
	return d.next.CreateUser(ctx, poolID, username)
}

func (d *instrumented) UpdateUserAttributes(ctx context.Context, poolID, username string, attrs []attributes.Attribute) (status int, err error) {
	ctx, finish := d.start(ctx, "AdminUpdateUserAttributes", poolID, username)
	defer func() { finish(err, zap.Int("attributes", len(attrs)), zap.Int("status_code", status)) }()
	return d.next.UpdateUserAttributes(ctx, poolID, username, attrs)
}

func (d *instrumented) GetUser(ctx context.Context, poolID, username string) (attrs []attributes.Attribute, err error) {
	ctx, finish := d.start(ctx, "AdminGetUser", poolID, username)
	defer func() { finish(err, zap.Int("attributes", len(attrs))) }()
	return d.next.GetUser(ctx, poolID, username)
}

func (d *instrumented) start(ctx context.Context, op, poolID, username string) (context.Context, func(error, ...zap.Field)) {
	ctx, span := telemetry.Start(ctx, op,
		attribute.String("user_pool_id", poolID),
		attribute.String("username", username),
	)
	started := time.Now()

	return ctx, func(err error, fields ...zap.Field) {
		defer span.End()
		fields = append(fields,
			zap.String("operation", op),
			zap.String("user_pool_id", poolID),
			zap.Duration("duration", time.Since(started)),
		)
		if username != "" {
			fields = append(fields, zap.String("username", username))
		}
		log := otelzap.Ctx(ctx)
		if err != nil {
			recordError(span, err)
			log.Error("❌ Directory call failed", append(fields, zap.Error(err))...)
			return
		}
		log.Info("✅ Directory call succeeded", fields...)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
