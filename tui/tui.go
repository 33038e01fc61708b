// Package tui renders the terminal progress view of a download.
package tui

import (
	"context"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// Task is the work shown by Run. It reports its transfer through tracker.
type Task func(ctx context.Context, tracker *Tracker) error

// Tracker collects transfer progress from the task goroutine. The view polls it.
type Tracker struct {
	mu      sync.Mutex
	name    string
	total   mo.Option[int64]
	started bool

	written atomic.Int64
}

func (t *Tracker) Start(name string, total mo.Option[int64]) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.name = name
	t.total = total
	t.started = true
	t.written.Store(0)
}

func (t *Tracker) Add(n int) {
	t.written.Add(int64(n))
}

// Done is a no-op; completion is reported by the task's return value.
func (t *Tracker) Done(error) {}

func (t *Tracker) snapshot() (name string, total mo.Option[int64], written int64, started bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.name, t.total, t.written.Load(), t.started
}

// Run shows title and a progress view while task runs. Quitting the view cancels the task.
func Run(ctx context.Context, title string, task Task) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := &Tracker{}
	b := newBubble(title, tracker, cancel)
	program := tea.NewProgram(b)

	go func() {
		program.Send(doneMsg{err: task(ctx, tracker)})
	}()

	model, err := program.Run()
	if err != nil {
		return err
	}

	final := model.(*bubble)
	if !final.finished {
		return context.Canceled
	}
	return final.err
}
