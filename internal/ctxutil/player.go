// Package ctxutil carries request-scoped values. It imports nothing from
// the module so any layer can use it.
package ctxutil

import "context"

type playerKey struct{}

// WithPlayerID returns a context acting on behalf of a player.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, playerKey{}, playerID)
}

// PlayerFromContext returns the acting player, or "" for trusted callers
// such as the sweep command.
func PlayerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(playerKey{}).(string)
	return id
}
