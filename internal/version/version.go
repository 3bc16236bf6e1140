// Package version reports which build of hamlet is running and which world
// it generates. Two binaries with different world seeds cannot share a
// database, so the seed is part of the version.
package version

import (
	"fmt"
	"runtime/debug"

	"github.com/example/hamlet/internal/core/world"
)

// Set at build time via ldflags. When unset, String falls back to the VCS
// stamp the Go toolchain embeds.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns e.g. "hamlet 0123456 (built 2026-05-01, world 123456789)".
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime := readVCS()
		if commit == "" {
			commit = vcsCommit
		}
		if built == "" {
			built = vcsTime
		}
	}
	if commit == "" {
		commit = "dev"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("hamlet %s (built %s, world %d)", shortCommit(commit), built, world.DefaultSeed)
}

func readVCS() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
