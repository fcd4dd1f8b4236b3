package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette for the interactive shell
var (
	colorPrompt = lipgloss.Color("#06B6D4") // Cyan
	colorEvent  = lipgloss.Color("#F59E0B") // Amber
	colorError  = lipgloss.Color("#EF4444") // Red
	colorMuted  = lipgloss.Color("#6B7280") // Gray
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(colorPrompt).
			Bold(true)

	eventStyle = lipgloss.NewStyle().
			Foreground(colorEvent)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// stdoutIsTerminal reports whether styled output makes sense
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
