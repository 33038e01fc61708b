// Package history keeps a bounded log of completed requests.
package history

import (
	"sync"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/where"
)

// DefaultMaxEntries applies when history.max_entries is not positive.
const DefaultMaxEntries = 200

// Log is a JSON file of entries, oldest first, guarded by one mutex around every read-modify-write.
type Log struct {
	// Max bounds the number of retained entries; the oldest are trimmed first.
	Max int

	mu     sync.Mutex
	cacher *gache.Cache[[]*Entry]
}

// Open returns a log stored at path. The file is created on the first write.
func Open(path string) *Log {
	max := viper.GetInt(key.HistoryMaxEntries)
	if max <= 0 {
		max = DefaultMaxEntries
	}

	return &Log{
		Max: max,
		cacher: gache.New[[]*Entry](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

var (
	defaultLog     *Log
	defaultLogOnce sync.Once
)

// Default returns the process-wide log, loaded from the history file on first access.
func Default() *Log {
	defaultLogOnce.Do(func() {
		defaultLog = Open(where.History())
	})
	return defaultLog
}

func (l *Log) load() ([]*Entry, error) {
	entries, expired, err := l.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || entries == nil {
		return []*Entry{}, nil
	}
	return entries, nil
}

// Get returns the entries, oldest first.
func (l *Log) Get() ([]*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return nil, err
	}
	return append([]*Entry{}, entries...), nil
}

// Append adds entry and trims the log to Max entries.
func (l *Log) Append(entry *Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if l.Max > 0 && len(entries) > l.Max {
		entries = entries[len(entries)-l.Max:]
	}
	return l.cacher.Set(entries)
}

// Remove deletes the entry with the given id and reports whether it existed.
func (l *Log) Remove(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return false, err
	}

	kept := lo.Reject(entries, func(e *Entry, _ int) bool {
		return e.ID == id
	})
	if len(kept) == len(entries) {
		return false, nil
	}
	return true, l.cacher.Set(kept)
}

// Clear drops every entry.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.cacher.Set([]*Entry{})
}

// Enabled reports whether requests should be recorded.
func Enabled() bool {
	return viper.GetBool(key.HistorySave)
}

// Append records entry in the default log when history is enabled.
func Append(entry *Entry) error {
	if !Enabled() {
		return nil
	}
	return Default().Append(entry)
}

// Get returns the entries of the default log, oldest first.
func Get() ([]*Entry, error) {
	return Default().Get()
}
