// Package format picks the single best directly fetchable rendition out of an extractor's format list.
package format

import (
	"path"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/media"
)

var manifestExtensions = []string{".m3u8", ".m3u", ".mpd", ".f4m", ".ism"}

var manifestProtocols = []string{"m3u8", "m3u8_native", "http_dash_segments", "f4m", "ism"}

// IsManifest reports whether u names a playlist or manifest rather than raw media bytes.
func IsManifest(u string) bool {
	p := strings.ToLower(u)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return lo.Contains(manifestExtensions, path.Ext(p))
}

// IsDirect reports whether f can be fetched with a single request.
func IsDirect(f media.Format) bool {
	if f.URL == "" || IsManifest(f.URL) {
		return false
	}
	if lo.Contains(manifestExtensions, "."+strings.ToLower(f.Ext)) {
		return false
	}
	return !lo.Contains(manifestProtocols, strings.ToLower(f.Protocol))
}

// Scoring holds the tuned ranking constants.
type Scoring struct {
	// DetailHeight is the height from which the detail bonus applies.
	DetailHeight int
	// DetailMultiplier scales the height into the detail bonus.
	DetailMultiplier int
	// DefaultFPS stands in for formats that report no frame rate.
	DefaultFPS float64
}

// DefaultScoring reads the ranking constants from the global settings.
func DefaultScoring() Scoring {
	return Scoring{
		DetailHeight:     viper.GetInt(key.FormatDetailHeight),
		DetailMultiplier: viper.GetInt(key.FormatDetailMultiplier),
		DefaultFPS:       viper.GetFloat64(key.FormatDefaultFPS),
	}
}

// Score is height × width × fps plus height × DetailMultiplier once height reaches DetailHeight.
func (s Scoring) Score(f media.Format) float64 {
	fps := f.FPS
	if fps <= 0 {
		fps = s.DefaultFPS
	}

	score := float64(f.Height) * float64(f.Width) * fps
	if f.Height >= s.DetailHeight {
		score += float64(f.Height * s.DetailMultiplier)
	}
	return score
}

// Tier is a named candidate filter.
type Tier struct {
	Name  string
	Match func(media.Format) bool
}

func muxed(minHeight int) func(media.Format) bool {
	return func(f media.Format) bool {
		return f.HasVideo() && f.HasAudio() && IsDirect(f) && f.Height >= minHeight
	}
}

func videoOnly(minHeight int) func(media.Format) bool {
	return func(f media.Format) bool {
		return f.HasVideo() && !f.HasAudio() && IsDirect(f) && f.Height >= minHeight
	}
}

// Tiers is the cascade in evaluation order. The first tier with a match decides the pick.
var Tiers = []Tier{
	{Name: "muxed 1080p", Match: muxed(1080)},
	{Name: "muxed 720p", Match: muxed(720)},
	{Name: "muxed 480p", Match: muxed(480)},
	{Name: "muxed", Match: muxed(0)},
	{Name: "video-only 1080p", Match: videoOnly(1080)},
	{Name: "video-only 720p", Match: videoOnly(720)},
}

// Selector ranks candidates with a tier cascade and a score.
type Selector struct {
	Tiers   []Tier
	Scoring Scoring
}

// New returns a selector using the default cascade and the configured scoring.
func New() *Selector {
	return &Selector{Tiers: Tiers, Scoring: DefaultScoring()}
}

// Candidates returns the formats followed by the requested formats, without repeated ids.
func Candidates(info *media.Info) []media.Format {
	all := append(append([]media.Format{}, info.Formats...), info.RequestedFormats...)
	return lo.UniqBy(all, func(f media.Format) string {
		if f.ID == "" {
			return f.URL
		}
		return f.ID
	})
}

// Select returns the best direct format of info. When no tier matches, the top-level URL
// is used as a synthesized format; without one it fails with NoPlayableFormat.
func (s *Selector) Select(info *media.Info) (media.Format, error) {
	candidates := Candidates(info)

	for _, tier := range s.Tiers {
		matched := lo.Filter(candidates, func(f media.Format, _ int) bool {
			return tier.Match(f)
		})
		if len(matched) == 0 {
			continue
		}

		// strictly greater keeps the first of equal scores
		return lo.MaxBy(matched, func(a, b media.Format) bool {
			return s.Scoring.Score(a) > s.Scoring.Score(b)
		}), nil
	}

	if info.URL != "" {
		return media.Format{
			ID:       "best",
			URL:      info.URL,
			Ext:      info.Ext,
			Protocol: info.Protocol,
			Headers:  info.Headers,
		}, nil
	}

	return media.Format{}, failure.Newf(failure.NoPlayableFormat, "none of %d candidate format(s) is directly fetchable", len(candidates))
}

// Result merges the chosen format with the top-level metadata. Per-format headers override
// top-level ones of the same name.
func Result(info *media.Info, choice media.Format, strategyName string) *media.Result {
	headers := make(map[string]string, len(info.Headers)+len(choice.Headers))
	for k, v := range info.Headers {
		headers[k] = v
	}
	for k, v := range choice.Headers {
		headers[k] = v
	}

	size := choice.Size()
	if size.IsAbsent() {
		size = info.Size()
	}

	ext := lo.CoalesceOrEmpty(choice.Ext, info.Ext, "mp4")

	result := &media.Result{
		Title:     lo.CoalesceOrEmpty(info.Title, info.ID, "video"),
		URL:       choice.URL,
		Extension: ext,
		Filesize:  size,
		Headers:   headers,
		FormatID:  choice.ID,
		Height:    choice.Height,
		Strategy:  strategyName,
	}

	if info.Duration > 0 {
		result.Duration = mo.Some(info.Duration)
	}
	if info.Uploader != "" {
		result.Uploader = mo.Some(info.Uploader)
	}
	return result
}
