// Package color is the terminal palette shared by the reporters and the init
// wizard.
package color

import "github.com/charmbracelet/lipgloss"

var (
	Blue   = lipgloss.Color("12") // Bright blue
	Cyan   = lipgloss.Color("14") // Bright cyan
	Yellow = lipgloss.Color("11") // Bright yellow
	Orange = lipgloss.Color("3")  // Yellow/Orange
	Green  = lipgloss.Color("10") // Bright green
	Red    = lipgloss.Color("9")  // Bright red
	White  = lipgloss.Color("15") // Bright white
	Black  = lipgloss.Color("0")

	// Category headings use the dark variants, their items the bright ones.
	DarkBlue  = lipgloss.Color("4")
	DarkGreen = lipgloss.Color("2")
	DarkRed   = lipgloss.Color("1")
	LightGray = lipgloss.Color("252")
	DarkGray  = lipgloss.Color("240") // Muted text and raw output
)
