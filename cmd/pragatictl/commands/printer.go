package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/okian/pragati/internal/domain/model"
)

func init() {
	// Force color output even when not connected to TTY
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen, color.Bold)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	bold   = color.New(color.Bold)
)

// tierColor picks the color a tier is printed in.
func tierColor(t model.Tier) *color.Color {
	switch t {
	case model.TierTop:
		return green
	case model.TierStrong:
		return cyan
	default:
		return color.New(color.Reset)
	}
}

func printError(w io.Writer, err error) {
	_, _ = red.Fprintf(w, "Error: %v\n", err)
}

func success(w io.Writer, format string, a ...any) {
	_, _ = green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warning(w io.Writer, format string, a ...any) {
	_, _ = yellow.Fprintf(w, "⚠️  "+format+"\n", a...)
}

func heading(w io.Writer, format string, a ...any) {
	_, _ = bold.Fprintf(w, format+"\n", a...)
}

func line(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}
