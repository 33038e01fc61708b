// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// HTTP Service - these keys configure the listener and request admission of the web surface.
const (
	ServerAddr           = "server.addr"
	ServerRateLimit      = "server.rate_limit"
	ServerBurst          = "server.burst"
	ServerMaxUploadBytes = "server.max_upload_bytes"
)

// Administration - these keys guard the cookie management panel and the automated upload endpoint.
const (
	AdminPassword       = "admin.password"
	AdminUploadToken    = "admin.upload_token"
	AdminSessionMinutes = "admin.session_minutes"
)

// Extraction - these keys tune the per-strategy extractor invocation and the fallback cadence.
const (
	ExtractBinary             = "extract.binary"
	ExtractSocketTimeout      = "extract.socket_timeout"
	ExtractRetries            = "extract.retries"
	ExtractFragmentRetries    = "extract.fragment_retries"
	ExtractForbiddenBackoffMs = "extract.forbidden_backoff_ms"
	ExtractRetryBackoffMs     = "extract.retry_backoff_ms"
)

// Format Ranking - these keys expose the tuned scoring heuristics of the selector.
const (
	FormatDetailHeight     = "format.detail_height"
	FormatDetailMultiplier = "format.detail_multiplier"
	FormatDefaultFPS       = "format.default_fps"
)

// Relay - these keys configure the pass-through of origin bytes.
const (
	RelayChunkSize   = "relay.chunk_size"
	RelayFingerprint = "relay.fingerprint"
	RelayIdleTimeout = "relay.idle_timeout"
)

// Credentials - these keys govern the lifetime and enforcement of uploaded cookies.
const (
	CredentialsValidityMinutes  = "credentials.validity_minutes"
	CredentialsRequiredPlatform = "credentials.required_platforms"
)

// Downloads and Cleanup - these keys manage persisted downloads and the background sweeper.
const (
	DownloadsDir           = "downloads.dir"
	DownloadsTTLMinutes    = "downloads.ttl_minutes"
	CleanupIntervalMinutes = "cleanup.interval_minutes"
)

// History Tracking - these keys configure the persistence of past requests.
const (
	HistorySave       = "history.save"
	HistoryMaxEntries = "history.max_entries"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the terminal behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	CliProgress     = "cli.progress"
)
