package extract

import (
	"time"

	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/platform"
	"github.com/videocatcher/videocatcher/strategy"
)

// Options is the fully merged extractor configuration of a single attempt.
type Options struct {
	Platform            platform.Platform
	Strategy            strategy.Strategy
	Format              string
	Cookies             string
	SocketTimeout       time.Duration
	Retries             int
	FragmentRetries     int
	NoCheckCertificates bool
	NoPlaylist          bool
}

// Config holds the base extractor options and the pauses between strategies.
type Config struct {
	SocketTimeout    time.Duration
	Retries          int
	FragmentRetries  int
	ForbiddenBackoff time.Duration
	RetryBackoff     time.Duration
}

// DefaultConfig reads the extractor configuration from the global settings.
func DefaultConfig() Config {
	return Config{
		SocketTimeout:    time.Duration(viper.GetInt(key.ExtractSocketTimeout)) * time.Second,
		Retries:          viper.GetInt(key.ExtractRetries),
		FragmentRetries:  viper.GetInt(key.ExtractFragmentRetries),
		ForbiddenBackoff: time.Duration(viper.GetInt(key.ExtractForbiddenBackoffMs)) * time.Millisecond,
		RetryBackoff:     time.Duration(viper.GetInt(key.ExtractRetryBackoffMs)) * time.Millisecond,
	}
}

// options merges the base configuration, the platform format preference, the credential
// and the strategy's client emulation. A strategy format override wins over the preference.
func (c Config) options(req Request, s strategy.Strategy) Options {
	return Options{
		Platform:            req.Platform,
		Strategy:            s,
		Format:              strategy.FormatFor(req.Platform, s),
		Cookies:             req.Cookies,
		SocketTimeout:       c.SocketTimeout,
		Retries:             c.Retries,
		FragmentRetries:     c.FragmentRetries,
		NoCheckCertificates: true,
		NoPlaylist:          true,
	}
}
