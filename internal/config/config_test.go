package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/hamlet/internal/core/catalog"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	if err := SaveConfig(dir, &Config{PlayerID: "alice", VillageID: "v-1"}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.PlayerID != "alice" || cfg.VillageID != "v-1" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestDBPath(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/test.db")
	path, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath failed: %v", err)
	}
	if path != "/tmp/test.db" {
		t.Errorf("expected env override, got %s", path)
	}

	t.Setenv(EnvDB, "")
	path, err = DBPath()
	if err != nil {
		t.Fatalf("DBPath failed: %v", err)
	}
	home, _ := os.UserHomeDir()
	if expected := filepath.Join(home, ".hamlet", "hamlet.db"); path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}

func writeCatalog(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".hamlet"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hamlet", "catalog.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCatalog_DefaultWithoutFile(t *testing.T) {
	t.Setenv(EnvStatMultiplier, "")
	cat, err := LoadCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if cat.DefaultCapacity != catalog.Default().DefaultCapacity {
		t.Errorf("expected default capacity, got %d", cat.DefaultCapacity)
	}
}

func TestLoadCatalog_Overrides(t *testing.T) {
	t.Setenv(EnvStatMultiplier, "")
	dir := t.TempDir()
	writeCatalog(t, dir, `
default_capacity: 8
workers:
  lumberjack:
    speed: 4
    gather_rate: 20
    max_capacity: 50
    consume_grain: 1
    consume_meat: 1
buildings:
  wooden_hut:
    title: Big hut
    cost: {wood: 10}
    build_seconds: 5
    capacity_bonus: 3
`)

	cat, err := LoadCatalog(dir)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if cat.DefaultCapacity != 8 {
		t.Errorf("expected capacity 8, got %d", cat.DefaultCapacity)
	}
	if s, _ := cat.Worker(catalog.Lumberjack); s.Speed != 4 || s.MaxCapacity != 50 {
		t.Errorf("lumberjack not overridden: %+v", s)
	}
	if s, _ := cat.Worker(catalog.Miner); s.Speed != 2 {
		t.Errorf("miner should keep defaults, got %+v", s)
	}
	if b, _ := cat.Building(catalog.WoodenHut); b.Cost.Wood != 10 || b.CapacityBonus != 3 {
		t.Errorf("wooden hut not overridden: %+v", b)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  string
	}{
		{name: "unknown worker", body: "workers:\n  wizard:\n    speed: 1\n"},
		{name: "zero build time", body: "buildings:\n  shed:\n    build_seconds: 0\n"},
		{name: "bad yaml", body: "workers: [\n"},
		{name: "bad multiplier", env: "fast"},
		{name: "negative multiplier", env: "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvStatMultiplier, tt.env)
			dir := t.TempDir()
			if tt.body != "" {
				writeCatalog(t, dir, tt.body)
			}
			if _, err := LoadCatalog(dir); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCatalog_StatMultiplierFromEnv(t *testing.T) {
	t.Setenv(EnvStatMultiplier, "60")
	cat, err := LoadCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if s, _ := cat.Worker(catalog.Lumberjack); s.Speed != 120 {
		t.Errorf("expected scaled speed 120, got %v", s.Speed)
	}
}
