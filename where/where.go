// Package where resolves the directories videocatcher reads and writes, creating them on first use.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/key"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "VIDEOCATCHER_CONFIG_PATH"

func mkdir(elem ...string) string {
	path := filepath.Join(elem...)
	lo.Must0(filesystem.API().MkdirAll(path, 0o755))
	return path
}

func Config() string {
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return mkdir(custom)
	}
	return mkdir(lo.Must(os.UserConfigDir()), constant.App)
}

// Cache falls back to ./cache when the platform has no cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "cache"
	}
	return mkdir(base, constant.App)
}

func Logs() string { return mkdir(Config(), "logs") }

// Cookies holds cookies.txt, the per-user files and the upload record.
func Cookies() string { return mkdir(Config(), "cookies") }

// Downloads honours downloads.dir, then defaults to a folder in the cache.
func Downloads() string {
	if dir := viper.GetString(key.DownloadsDir); dir != "" {
		return mkdir(dir)
	}
	return mkdir(Cache(), "downloads")
}

// History is a file, not a directory.
func History() string { return filepath.Join(Config(), "history.json") }

func Temp() string { return mkdir(os.TempDir(), constant.App) }
