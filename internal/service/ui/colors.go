// Package ui holds the terminal styles shared by CLI help and output.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// TitleStyle ANSI 6 (cyan) for section headers
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (gray) keeps descriptions quieter than names
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	LabelStyle = lipgloss.NewStyle().Bold(true).Width(26)

	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Score renders a 0-10 mood score colored by band.
func Score(v float64) string {
	return band(v/10, fmt.Sprintf("%.2f", v))
}

// Ratio renders a 0-1 value such as a similarity or confidence.
func Ratio(v float64) string {
	return band(v, fmt.Sprintf("%.3f", v))
}

func band(v float64, s string) string {
	switch {
	case v < 0.4:
		return lowStyle.Render(s)
	case v > 0.6:
		return highStyle.Render(s)
	default:
		return neutralStyle.Render(s)
	}
}

// Row renders a "label value" line.
func Row(label, value string) string {
	return LabelStyle.Render(label) + value
}
