// Package cli provides CLI commands for the hamlet application.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/example/hamlet/internal/config"
	"github.com/example/hamlet/internal/core/failure"
	"github.com/example/hamlet/internal/ctxutil"
	"github.com/example/hamlet/internal/wire"
)

// EnvPlayer overrides the configured player ID.
const EnvPlayer = "HAMLET_PLAYER"

// globalPlayerID and globalVillageID hold the identity of the current
// CLI invocation. Set once at startup by LoadIdentity.
var (
	globalPlayerID  string
	globalVillageID string
)

// LoadIdentity reads the player identity from .hamlet/config.json in the
// working directory. $HAMLET_PLAYER wins over the file.
// Should be called once at CLI startup in PersistentPreRun.
func LoadIdentity() {
	if dir, err := os.Getwd(); err == nil {
		if cfg, err := config.LoadConfig(dir); err == nil {
			globalPlayerID = cfg.PlayerID
			globalVillageID = cfg.VillageID
		} else {
			slog.Debug("no player config", "error", err)
		}
	}
	if p := os.Getenv(EnvPlayer); p != "" {
		globalPlayerID = p
	}
}

// NewContext creates a context.Background() with the current player embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalPlayerID != "" {
		return ctxutil.WithPlayerID(ctx, globalPlayerID)
	}
	return ctx
}

// currentVillage resolves the village of the current player.
func currentVillage(ctx context.Context) (string, error) {
	if globalVillageID != "" {
		return globalVillageID, nil
	}
	if globalPlayerID == "" {
		return "", fmt.Errorf("no player configured; run 'hamlet village create --player <id>' first")
	}
	v, err := wire.VillageService().GetVillageByOwner(ctx, globalPlayerID)
	if failure.IsNotFound(err) {
		return "", fmt.Errorf("player %s has no village; run 'hamlet village create'", globalPlayerID)
	}
	if err != nil {
		return "", err
	}
	globalVillageID = v.ID
	return v.ID, nil
}

// refreshVillage resolves the current village and sweeps it, so the command
// works from the state as of now rather than the last stored rows.
func refreshVillage(ctx context.Context) (string, error) {
	villageID, err := currentVillage(ctx)
	if err != nil {
		return "", err
	}
	if _, err := wire.SweepService().Refresh(ctx, villageID); err != nil {
		return "", err
	}
	return villageID, nil
}

// saveIdentity persists the player and village to the working directory.
func saveIdentity(playerID, villageID string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	if err := config.SaveConfig(dir, &config.Config{PlayerID: playerID, VillageID: villageID}); err != nil {
		return err
	}
	globalPlayerID, globalVillageID = playerID, villageID
	return nil
}

// DescribeError renders a rule rejection as "code: reason".
func DescribeError(err error) error {
	var fe *failure.Error
	if errors.As(err, &fe) {
		return fmt.Errorf("%s: %s", fe.Code, fe.Reason)
	}
	return err
}
