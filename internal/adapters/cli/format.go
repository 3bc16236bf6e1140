// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting and delegate
// game rules to the services.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/mission"
	"github.com/example/hamlet/internal/core/traveler"
)

const rule = "────────────────────────────────────────────────────────────────"

var (
	okColor   = color.New(color.FgGreen)
	okMark    = okColor.Sprint("✓")
	dimColor  = color.New(color.FgHiBlack)
	warnColor = color.New(color.FgYellow)
)

// phaseLabel colors a mission phase.
func phaseLabel(p mission.Phase) string {
	switch p {
	case mission.PhaseTravelingTo:
		return color.New(color.FgCyan).Sprint(p.String())
	case mission.PhaseWorking:
		return color.New(color.FgYellow).Sprint(p.String())
	case mission.PhaseTravelingBack:
		return color.New(color.FgHiBlue).Sprint(p.String())
	case mission.PhaseCompleted:
		return color.New(color.FgGreen).Sprint(p.String())
	default:
		return p.String()
	}
}

// stateLabel colors a traveler state.
func stateLabel(s traveler.State) string {
	switch s {
	case traveler.StatePresent:
		return color.New(color.FgHiGreen).Sprint(s.String())
	case traveler.StateWaiting:
		return color.New(color.FgYellow).Sprint(s.String())
	default:
		return dimColor.Sprint(s.String())
	}
}

// resourceColor returns the display color of a resource kind.
func resourceColor(kind catalog.ResourceKind) *color.Color {
	switch kind {
	case catalog.Wood:
		return color.New(color.FgGreen)
	case catalog.Stone:
		return color.New(color.FgWhite)
	case catalog.Grain:
		return color.New(color.FgYellow)
	case catalog.Meat:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// formatBundle renders the non-zero amounts of b, e.g. "50 wood, 30 stone".
func formatBundle(b catalog.Bundle) string {
	var parts []string
	for _, kind := range catalog.ResourceKinds {
		if n := b.Get(kind); n != 0 {
			parts = append(parts, resourceColor(kind).Sprintf("%d %s", n, kind))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

// formatSeconds renders a duration in seconds as e.g. "1h05m" or "42s".
func formatSeconds(s int) string {
	d := time.Duration(s) * time.Second
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), s%60)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func percent(f float64) string {
	return fmt.Sprintf("%3.0f%%", f*100)
}
