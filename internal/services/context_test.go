package services_test

import (
	"context"
	"testing"

	"slidecast/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithCapsuleID(ctx, "42")
	ctx = services.WithSegment(ctx, 0)
	ctx = services.WithStage(ctx, "segment")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.CapsuleIDFromContext(ctx); !ok || id != "42" {
		t.Fatalf("unexpected capsule id: %v %v", id, ok)
	}
	if idx, ok := services.SegmentFromContext(ctx); !ok || idx != 0 {
		t.Fatalf("unexpected segment: %v %v", idx, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "segment" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.SegmentFromContext(ctx); ok {
		t.Fatal("expected no segment value")
	}
}
