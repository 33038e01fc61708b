// Package constant defines immutable application-level identifiers.
package constant

import _ "embed"

const (
	// App names the binary, the config file, the env prefix and the per-user directories.
	App = "videocatcher"

	Version = "0.3.0"

	// UserAgent is sent by the relay when a strategy does not set its own.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Repository is the GitHub "owner/name" queried for releases.
	Repository = "videocatcher/videocatcher"
)

// runtime.GOOS values with OS-specific behavior.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

//go:embed ascii.txt
var AsciiArtLogo string
