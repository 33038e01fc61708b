// Package query suggests previously requested URLs for partial input.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/videocatcher/videocatcher/history"
	"golang.org/x/exp/slices"
)

type urlRecord struct {
	Rank  int
	Last  int
	URL   string
	Title string
}

// Rank returns the URLs of entries matching q, most requested first, then most recent.
// q is matched against both the URL and the title.
func Rank(entries []*history.Entry, q string) []string {
	q = sanitize(q)
	records := make(map[string]*urlRecord)

	for i, entry := range entries {
		if r, ok := records[entry.URL]; ok {
			r.Rank++
			r.Last = i
			r.Title = lo.CoalesceOrEmpty(entry.Title, r.Title)
			continue
		}
		records[entry.URL] = &urlRecord{Rank: 1, Last: i, URL: entry.URL, Title: entry.Title}
	}

	matched := lo.Filter(lo.Values(records), func(r *urlRecord, _ int) bool {
		return q == "" ||
			fuzzy.MatchNormalizedFold(q, r.URL) ||
			fuzzy.MatchNormalizedFold(q, r.Title)
	})

	slices.SortFunc(matched, func(a, b *urlRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.Last - a.Last
	})

	return lo.Map(matched, func(r *urlRecord, _ int) string {
		return r.URL
	})
}

// SuggestMany returns past URLs matching the partial input q.
func SuggestMany(q string) []string {
	if !history.Enabled() {
		return []string{}
	}

	entries, err := history.Get()
	if err != nil {
		return []string{}
	}
	return Rank(entries, q)
}

// Suggest returns the most relevant past URL for q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
