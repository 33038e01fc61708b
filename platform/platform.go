// Package platform classifies video page URLs by the site that hosts them.
package platform

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Platform is a supported video host.
type Platform string

const (
	Unknown   Platform = "unknown"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
)

// Supported returns the platforms the service can extract from, in display order.
func Supported() []Platform {
	return []Platform{YouTube, TikTok, Instagram}
}

// markers maps a lowercase host fragment to its platform.
var markers = []lo.Tuple2[string, Platform]{
	lo.T2("youtube.com", YouTube),
	lo.T2("youtu.be", YouTube),
	lo.T2("tiktok.com", TikTok),
	lo.T2("instagram.com", Instagram),
	lo.T2("instagr.am", Instagram),
}

// Detect classifies a URL by case-insensitive substring match against known host names.
// It never touches the network and returns Unknown for anything it does not recognize.
func Detect(url string) Platform {
	lower := strings.ToLower(url)
	for _, m := range markers {
		if strings.Contains(lower, m.A) {
			return m.B
		}
	}
	return Unknown
}

// Parse resolves an explicit platform name. The empty string and "auto" mean Unknown,
// which callers treat as "detect from the URL".
func Parse(name string) (Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return Unknown, nil
	}

	p := Platform(name)
	if !lo.Contains(Supported(), p) {
		return Unknown, fmt.Errorf("unknown platform %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the identifiers of the supported platforms.
func Names() []string {
	return lo.Map(Supported(), func(p Platform, _ int) string {
		return p.String()
	})
}

// Resolve returns the explicit platform when given, otherwise the one detected from url.
func Resolve(url string, explicit Platform) Platform {
	if explicit != "" && explicit != Unknown {
		return explicit
	}
	return Detect(url)
}

func (p Platform) String() string {
	return string(p)
}

// Title returns the display name of the platform.
func (p Platform) Title() string {
	switch p {
	case YouTube:
		return "YouTube"
	case TikTok:
		return "TikTok"
	case Instagram:
		return "Instagram"
	default:
		return "Unknown"
	}
}

// IsSupported reports whether p is one of the extractable platforms.
func (p Platform) IsSupported() bool {
	return lo.Contains(Supported(), p)
}
