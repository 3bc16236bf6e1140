package cli

import (
	"testing"

	"github.com/fatih/color"

	"github.com/example/hamlet/internal/core/catalog"
)

func init() {
	color.NoColor = true
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0s"},
		{42, "42s"},
		{90, "1m30s"},
		{3600, "1h00m"},
		{3900, "1h05m"},
		{90000, "25h00m"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBundle(t *testing.T) {
	if got := formatBundle(catalog.Bundle{}); got != "nothing" {
		t.Errorf("expected nothing, got %q", got)
	}
	got := formatBundle(catalog.Bundle{Wood: 40, Stone: 60})
	if got != "40 wood, 60 stone" {
		t.Errorf("unexpected bundle %q", got)
	}
}
