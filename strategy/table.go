package strategy

import (
	"github.com/samber/mo"
	"github.com/videocatcher/videocatcher/platform"
)

const (
	userAgentTV            = "Mozilla/5.0 (SMART-TV; Linux; Tizen 6.0) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/4.0 Chrome/76.0.3809.146 TV Safari/537.36"
	userAgentAndroid       = "Mozilla/5.0 (Linux; Android 11; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	userAgentIOS           = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1"
	userAgentDesktop       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	userAgentTikTokAndroid = "com.zhiliaoapp.musically/2023405020 (Linux; U; Android 13; en_US; Pixel 7; Build/TQ3A.230805.001; Cronet/TTNetVersion:5f9640e3 2023-09-21 QuicVersion:47946d2a 2020-10-14)"
)

// Default builds the startup strategy table.
func Default() Table {
	return Table{
		platform.YouTube: {
			{
				Name:      "TV Client",
				UserAgent: userAgentTV,
				ExtractorArgs: Args{
					"youtube": {
						"player_client":     {"tv"},
						"skip":              {"hls"},
						"include_live_dash": {"false"},
						"player_skip":       {"configs"},
					},
				},
				Format: mo.Some("best[height<=1080]"),
			},
			{
				Name:      "Android Client",
				UserAgent: userAgentAndroid,
				ExtractorArgs: Args{
					"youtube": {
						"player_client":     {"android"},
						"skip":              {"hls"},
						"include_live_dash": {"false"},
					},
				},
			},
			{
				Name:      "iOS Client",
				UserAgent: userAgentIOS,
				ExtractorArgs: Args{
					"youtube": {
						"player_client": {"ios"},
						"skip":          {"hls"},
					},
				},
			},
		},
		platform.TikTok: {
			{
				Name:      "Mobile App",
				UserAgent: userAgentTikTokAndroid,
			},
			{
				Name:      "Desktop Browser",
				UserAgent: userAgentDesktop,
			},
		},
		platform.Instagram: {
			{
				Name:      "Desktop Browser",
				UserAgent: userAgentDesktop,
			},
			{
				Name:      "Mobile Safari",
				UserAgent: userAgentIOS,
			},
		},
	}
}
