// Package strategy holds the ordered client-emulation profiles tried against each platform.
package strategy

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/videocatcher/videocatcher/platform"
)

// Args are extractor arguments keyed by extractor, then by argument name.
type Args map[string]map[string][]string

// Render returns one "ie:key=v1,v2;key2=v" string per extractor, sorted by extractor then key.
func (a Args) Render() []string {
	extractors := lo.Keys(a)
	slices.Sort(extractors)

	rendered := make([]string, 0, len(extractors))
	for _, ie := range extractors {
		args := a[ie]
		if len(args) == 0 {
			continue
		}

		keys := lo.Keys(args)
		slices.Sort(keys)

		pairs := lo.Map(keys, func(k string, _ int) string {
			return k + "=" + strings.Join(args[k], ",")
		})
		rendered = append(rendered, ie+":"+strings.Join(pairs, ";"))
	}
	return rendered
}

func (a Args) String() string {
	return strings.Join(a.Render(), " ")
}

// Strategy is a named client-emulation profile.
type Strategy struct {
	Name          string
	UserAgent     string
	ExtractorArgs Args
	// Format overrides the platform's format preference when present.
	Format mo.Option[string]
}

func (s Strategy) String() string {
	return s.Name
}

// Table maps each platform to its strategies in the order they are tried.
type Table map[platform.Platform][]Strategy

// For returns a copy of the strategies registered for p. Unknown platforms have none.
func (t Table) For(p platform.Platform) []Strategy {
	return slices.Clone(t[p])
}

// Names returns the strategy names registered for p, in order.
func (t Table) Names(p platform.Platform) []string {
	return lo.Map(t[p], func(s Strategy, _ int) string {
		return s.Name
	})
}

// FormatPreference returns the extractor format expression used for p unless a strategy overrides it.
func FormatPreference(p platform.Platform) string {
	if p == platform.YouTube {
		return "best[height<=1080]/bestvideo[height<=1080]+bestaudio/best"
	}
	return "best"
}

// FormatFor returns the format expression s should run with on p.
func FormatFor(p platform.Platform, s Strategy) string {
	return s.Format.OrElse(FormatPreference(p))
}
