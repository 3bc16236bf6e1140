package ctxutil

import (
	"context"
	"testing"
)

func TestPlayerFromContext(t *testing.T) {
	ctx := context.Background()
	if got := PlayerFromContext(ctx); got != "" {
		t.Errorf("expected empty player, got %q", got)
	}
	ctx = WithPlayerID(ctx, "alice")
	if got := PlayerFromContext(ctx); got != "alice" {
		t.Errorf("expected alice, got %q", got)
	}
}
