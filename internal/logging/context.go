package logging

import (
	"context"
	"log/slog"
	"strconv"

	"tubegrab/internal/services"
)

// Structured field keys shared across packages.
const (
	FieldComponent     = "component"
	FieldItem          = "item" // "index/total" within a batch
	FieldReference     = "ref"
	FieldStage         = "stage"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldImpact        = "impact"
)

// ContextFields turns the annotations set by the services helpers into attrs.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var fields []Attr
	if idx, total, ok := services.ItemFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldItem, strconv.Itoa(idx)+"/"+strconv.Itoa(total)))
	}
	for _, f := range []struct {
		key    string
		lookup func(context.Context) (string, bool)
	}{
		{FieldReference, services.ReferenceFromContext},
		{FieldStage, services.StageFromContext},
		{FieldCorrelationID, services.RequestIDFromContext},
	} {
		if v, ok := f.lookup(ctx); ok {
			fields = append(fields, slog.String(f.key, v))
		}
	}
	return fields
}

// WithContext returns logger extended with the fields found on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return logger.With(args...)
}
