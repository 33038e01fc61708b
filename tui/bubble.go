package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/style"
)

const pollInterval = 100 * time.Millisecond

type (
	tickMsg time.Time
	doneMsg struct{ err error }
)

type bubble struct {
	state  state
	keymap *keymap
	title  string

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	tracker *Tracker
	cancel  context.CancelFunc

	name    string
	total   mo.Option[int64]
	written int64
	started time.Time

	finished bool
	err      error

	width int
}

func newBubble(title string, tracker *Tracker, cancel context.CancelFunc) *bubble {
	b := &bubble{
		state:     resolvingState,
		keymap:    newKeymap(),
		title:     title,
		spinnerC:  spinner.New(),
		progressC: progress.New(progress.WithDefaultGradient()),
		helpC:     help.New(),
		tracker:   tracker,
		cancel:    cancel,
	}
	b.spinnerC.Spinner = spinner.Dot
	b.spinnerC.Style = style.New().Foreground(color.Purple)
	return b
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (b *bubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, tick())
}

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.progressC.Width = max(10, min(msg.Width-4, 60))
		return b, nil
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.quit, b.keymap.forceQuit) {
			b.cancel()
			return b, tea.Quit
		}
	case tickMsg:
		b.poll()
		return b, tick()
	case doneMsg:
		b.poll()
		b.finished = true
		b.err = msg.err
		b.state = lo.Ternary(msg.err == nil, doneState, errorState)
		return b, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case progress.FrameMsg:
		model, cmd := b.progressC.Update(msg)
		b.progressC = model.(progress.Model)
		return b, cmd
	}

	return b, nil
}

// poll copies the tracker's counters into the model.
func (b *bubble) poll() {
	name, total, written, started := b.tracker.snapshot()
	if !started {
		return
	}

	if b.state == resolvingState {
		b.state = transferState
		b.started = time.Now()
	}
	b.name, b.total, b.written = name, total, written
}

func (b *bubble) percent() mo.Option[float64] {
	total, ok := b.total.Get()
	if !ok || total <= 0 {
		return mo.None[float64]()
	}
	return mo.Some(min(float64(b.written)/float64(total), 1))
}
