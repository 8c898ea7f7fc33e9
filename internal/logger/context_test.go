package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContext_RoundTrip(t *testing.T) {
	log := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), log)

	if got := FromContext(ctx); got != log {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext returned nil for a bare context")
	}
}
