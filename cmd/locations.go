package cmd

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/where"
)

// location is a path that where prints and clear may remove.
// Hidden locations are left out of the where overview.
type location struct {
	name   string
	flag   string
	short  mo.Option[string]
	path   func() string
	hidden bool
}

var (
	configLocation    = location{"config", "config", mo.Some("c"), where.Config, false}
	downloadsLocation = location{"downloads", "downloads", mo.Some("d"), where.Downloads, false}
	cookiesLocation   = location{"cookies", "cookies", mo.Some("k"), where.Cookies, false}
	logsLocation      = location{"logs", "logs", mo.Some("l"), where.Logs, false}
	cacheLocation     = location{"cache", "cache", mo.None[string](), where.Cache, true}
	tempLocation      = location{"temp", "temp", mo.None[string](), where.Temp, true}
	historyLocation   = location{"history file", "history", mo.Some("s"), where.History, true}
)

// addLocationFlags registers one boolean flag per location.
func addLocationFlags(cmd *cobra.Command, locations []location, usage func(location) string) {
	for _, loc := range locations {
		cmd.Flags().BoolP(loc.flag, loc.short.OrEmpty(), false, usage(loc))
	}
}

func selectedLocations(cmd *cobra.Command, locations []location) []location {
	return lo.Filter(locations, func(loc location, _ int) bool {
		return lo.Must(cmd.Flags().GetBool(loc.flag))
	})
}
