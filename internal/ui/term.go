package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI.
var (
	// Scheduled tasks: cyan for calendar entries
	colorScheduled = color.New(color.FgCyan)

	// Completed tasks and positive metrics: green
	colorDone = color.New(color.FgGreen)

	// Backlog and secondary information: dim
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Insight/coaching output: yellow to make it pop
	colorInsight = color.New(color.FgYellow)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}
