package services

import "context"

type contextKey int

const (
	itemKey contextKey = iota
	referenceKey
	stageKey
	requestIDKey
)

type itemPosition struct {
	index int
	total int
}

// WithItem records the 1-based position of an item inside a batch.
func WithItem(ctx context.Context, index, total int) context.Context {
	if index <= 0 || total <= 0 {
		return ctx
	}
	return context.WithValue(ctx, itemKey, itemPosition{index: index, total: total})
}

// ItemFromContext returns the batch position recorded by WithItem.
func ItemFromContext(ctx context.Context) (index, total int, ok bool) {
	pos, ok := ctx.Value(itemKey).(itemPosition)
	return pos.index, pos.total, ok
}

// WithReference records the media reference being processed.
func WithReference(ctx context.Context, ref string) context.Context {
	return withString(ctx, referenceKey, ref)
}

func ReferenceFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, referenceKey)
}

// WithStage records the acquisition method in progress (direct, fallback).
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, stageKey)
}

// WithRequestID records a per-item correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, requestIDKey)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key contextKey) (string, bool) {
	value, _ := ctx.Value(key).(string)
	return value, value != ""
}
