package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/util"
)

var whereLocations = []location{
	configLocation,
	downloadsLocation,
	cookiesLocation,
	logsLocation,
	cacheLocation,
	tempLocation,
	historyLocation,
}

func init() {
	rootCmd.AddCommand(whereCmd)
	addLocationFlags(whereCmd, whereLocations, func(loc location) string {
		return "Print only the " + loc.name + " path"
	})
	for _, loc := range whereLocations {
		if loc.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(loc.flag))
		}
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereLocations, func(loc location, _ int) string { return loc.flag })...)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where config, downloads, cookies and logs live",
	Run: func(cmd *cobra.Command, args []string) {
		if selected, ok := lo.First(selectedLocations(cmd, whereLocations)); ok {
			cmd.Println(selected.path())
			return
		}

		heading := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(whereLocations, func(loc location, _ int) bool { return loc.hidden })

		for i, loc := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(heading(util.Capitalize(loc.name)), style.Faint("--"+loc.flag))
			cmd.Println(loc.path())
		}
	},
}
