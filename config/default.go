package config

import (
	"fmt"

	"github.com/videocatcher/videocatcher/key"
)

// Default is the registry of every setting, keyed by its viper key.
var Default = map[string]Field{}

func register(k string, v any, desc string) {
	if _, ok := Default[k]; ok {
		panic(fmt.Sprintf("config key %q registered twice", k))
	}
	Default[k] = Field{Key: k, Value: v, Description: desc}
}

func init() {
	register(key.ServerAddr, ":5000", "Address the HTTP service listens on")
	register(key.ServerRateLimit, 2, "Download requests admitted per second from each client IP")
	register(key.ServerBurst, 5, "Burst size of each client's download rate limiter")
	register(key.ServerMaxUploadBytes, 1<<20, "Maximum size of an uploaded cookies file in bytes")

	register(key.AdminPassword, "", "Password of the admin panel.\nFalls back to the system keyring (videocatcher admin password) when empty")
	register(key.AdminUploadToken, "", "Token accepted by the automated cookie upload endpoint.\nFalls back to the system keyring when empty; the endpoint is disabled if neither is set")
	register(key.AdminSessionMinutes, 720, "Lifetime of an admin session in minutes")

	register(key.ExtractBinary, "", "Path to the yt-dlp executable.\nResolved from PATH when empty")
	register(key.ExtractSocketTimeout, 30, "Per-call extractor socket timeout in seconds")
	register(key.ExtractRetries, 3, "Extractor retries per strategy")
	register(key.ExtractFragmentRetries, 3, "Extractor fragment retries per strategy")
	register(key.ExtractForbiddenBackoffMs, 3000, "Pause in milliseconds before the next strategy after a 403")
	register(key.ExtractRetryBackoffMs, 2000, "Pause in milliseconds before the next strategy after any other failure")

	register(key.FormatDetailHeight, 720, "Height from which a format earns the detail bonus")
	register(key.FormatDetailMultiplier, 2, "Detail bonus multiplier applied to the height")
	register(key.FormatDefaultFPS, 30, "Frame rate assumed for formats that do not report one")

	register(key.RelayChunkSize, 8192, "Chunk size in bytes used when relaying origin bytes")
	register(key.RelayFingerprint, false, "Relay through a client presenting a Chrome TLS fingerprint")
	register(key.RelayIdleTimeout, 30, "Seconds the origin may stay silent mid-stream before the transfer is aborted")

	register(key.CredentialsValidityMinutes, 15, "Minutes an uploaded per-user cookies file stays valid")
	register(key.CredentialsRequiredPlatform, []string{}, "Platforms that refuse to run without cookies.\nAvailable options are: youtube, tiktok, instagram")

	register(key.DownloadsDir, "", "Directory for persisted downloads.\nDefaults to the cache directory when empty")
	register(key.DownloadsTTLMinutes, 120, "Minutes a persisted download is kept before cleanup")
	register(key.CleanupIntervalMinutes, 10, "Minutes between cleanup sweeps")

	register(key.HistorySave, true, "Record successful requests in the history")
	register(key.HistoryMaxEntries, 200, "Maximum number of history entries kept")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
	register(key.CliProgress, true, "Show a progress bar while downloading in the terminal")
}
