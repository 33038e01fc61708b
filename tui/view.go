package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/util"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *bubble) View() string {
	switch b.state {
	case resolvingState:
		return b.renderLines(true, []string{
			style.Title("Resolving"),
			"",
			b.spinnerC.View() + " " + style.Faint(b.title),
		})
	case transferState:
		return b.renderLines(true, b.viewTransfer())
	case doneState:
		return b.renderLines(false, []string{
			icon.Get(icon.Success) + " " + style.Fg(color.Green)(b.name) + " " + style.Faint(util.HumanBytes(b.written)),
		})
	case errorState:
		return b.renderLines(false, []string{
			style.ErrorTitle("Error"),
			"",
			wrap.String(icon.Get(icon.Fail)+" "+b.err.Error(), max(b.width-4, 20)),
		})
	default:
		return ""
	}
}

func (b *bubble) viewTransfer() []string {
	progressLine := b.spinnerC.View() + " " + util.HumanBytes(b.written)
	if percent, ok := b.percent().Get(); ok {
		progressLine = b.progressC.ViewAs(percent)
	}

	stats := []string{util.HumanBytes(b.written)}
	if total, ok := b.total.Get(); ok {
		stats[0] += " / " + util.HumanBytes(total)
	}
	if elapsed := time.Since(b.started).Seconds(); elapsed > 0 {
		stats = append(stats, util.HumanBytes(int64(float64(b.written)/elapsed))+"/s")
	}

	return []string{
		style.Title("Downloading"),
		"",
		style.Truncate(max(b.width-4, 20))(icon.Get(icon.Video) + " " + style.Fg(color.Purple)(b.name)),
		"",
		progressLine,
		style.Faint(strings.Join(stats, "  ")),
	}
}

func (b *bubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		l += "\n\n" + b.helpC.View(b.keymap)
	}
	return paddingStyle.Render(l) + "\n"
}
