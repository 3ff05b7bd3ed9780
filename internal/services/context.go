package services

import "context"

type contextKey string

const (
	capsuleIDKey contextKey = "capsule_id"
	segmentKey   contextKey = "segment"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithCapsuleID annotates context with the capsule being produced.
func WithCapsuleID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, capsuleIDKey, id)
}

// CapsuleIDFromContext extracts the capsule identifier if present.
func CapsuleIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(capsuleIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSegment annotates context with the zero-based segment index.
func WithSegment(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, segmentKey, index)
}

// SegmentFromContext returns the segment index if present.
func SegmentFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(segmentKey).(int)
	return v, ok
}

// WithStage annotates context with the production stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
