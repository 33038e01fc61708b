// Package style composes lipgloss styles into plain string renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg colors the foreground.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

// Truncate pads or wraps s to width columns.
func Truncate(width int) func(string) string {
	return func(s string) string { return New().Width(width).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Tag renders s as a padded block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}

// Title renders a section banner.
var Title = Tag(Paper, Banner)

// ErrorTitle renders a failure banner.
var ErrorTitle = Tag(Paper, Alert)

// Platform returns the tag renderer for a platform name.
func Platform(name string) func(string) string {
	switch name {
	case "youtube":
		return Tag(Ink, Youtube)
	case "tiktok":
		return Tag(Ink, Tiktok)
	case "instagram":
		return Tag(Ink, Insta)
	default:
		return Tag(Ink, Muted)
	}
}
