// Package ui provides colored console output for operator-facing messages.
package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
)

// ConfigureColor disables color when stdout is not a terminal or NO_COLOR
// is set.
func ConfigureColor() {
	_, noColor := os.LookupEnv("NO_COLOR")
	color.NoColor = noColor || !term.IsTerminal(int(os.Stdout.Fd()))
}

// Error prints a red error message with X to stderr.
func Error(format string, args ...any) {
	Red.Fprintf(color.Error, "✗ "+format+"\n", args...)
}

func Package(format string, args ...any) {
	Green.Printf("📦 "+format+"\n", args...)
}

func Rocket(format string, args ...any) {
	Green.Printf("🚀 "+format+"\n", args...)
}
