package style

import "github.com/charmbracelet/lipgloss"

// Hex colors for boxes and platform tags, where the terminal's own palette is too dull.
var (
	Ink     = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Muted   = lipgloss.Color("#6c7086")
	Accent  = lipgloss.Color("#cba6f7")
	Alert   = lipgloss.Color("#f38ba8")
	Banner  = lipgloss.Color("#5f5fd7")
	Paper   = lipgloss.Color("#ffffd7")
	Youtube = lipgloss.Color("#ff4e45")
	Tiktok  = lipgloss.Color("#25f4ee")
	Insta   = lipgloss.Color("#e1306c")
)
