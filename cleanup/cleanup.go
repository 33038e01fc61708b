// Package cleanup prunes persisted downloads and expired credentials in the background.
package cleanup

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/metrics"
)

// Sweep removes the regular files directly inside dir last modified more than ttl before now,
// and returns how many were removed. Subdirectories are left alone. Files that cannot be
// removed are skipped.
func Sweep(dir string, ttl time.Duration, now time.Time) int {
	fs := filesystem.API()

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0
	}

	var removed int
	for _, info := range entries {
		if !info.Mode().IsRegular() || now.Sub(info.ModTime()) <= ttl {
			continue
		}

		path := filepath.Join(dir, info.Name())
		if err := fs.Remove(path); err != nil {
			log.Debugf("skipping %s during cleanup: %s", path, err)
			continue
		}

		log.Infof("removed old download %s", path)
		removed++
	}

	metrics.SweptFiles.Add(float64(removed))
	return removed
}

// Purger removes expired state and reports how many items it dropped.
type Purger func() (int, error)

// Options configures the cleanup loop.
type Options struct {
	Dir      string
	TTL      time.Duration
	Interval time.Duration
	Purgers  []Purger
}

// DefaultOptions reads the loop settings from the global configuration.
func DefaultOptions(dir string, purgers ...Purger) Options {
	return Options{
		Dir:      dir,
		TTL:      time.Duration(viper.GetInt(key.DownloadsTTLMinutes)) * time.Minute,
		Interval: time.Duration(viper.GetInt(key.CleanupIntervalMinutes)) * time.Minute,
		Purgers:  purgers,
	}
}

// Run sweeps immediately and then on every interval until ctx is done.
func Run(ctx context.Context, opts Options) {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Minute
	}

	log.Infof("cleanup loop starting: removing downloads older than %s every %s", opts.TTL, opts.Interval)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		once(opts)

		select {
		case <-ctx.Done():
			log.Info("cleanup loop stopped")
			return
		case <-ticker.C:
		}
	}
}

func once(opts Options) {
	if opts.Dir != "" && opts.TTL > 0 {
		Sweep(opts.Dir, opts.TTL, time.Now())
	}

	for _, purge := range opts.Purgers {
		if _, err := purge(); err != nil {
			log.Warnf("cleanup purge failed: %s", err)
		}
	}
}
