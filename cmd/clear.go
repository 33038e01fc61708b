package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/util"
)

var clearLocations = []location{
	cacheLocation,
	historyLocation,
	downloadsLocation,
	cookiesLocation,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	addLocationFlags(clearCmd, clearLocations, func(loc location) string {
		return "Remove the " + loc.name
	})
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached files, history, persisted downloads or stored cookies",
	Run: func(cmd *cobra.Command, args []string) {
		selected := selectedLocations(cmd, clearLocations)
		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, loc := range selected {
			erase := util.PrintErasable(fmt.Sprintf("%s Removing %s...", icon.Get(icon.Progress), loc.name))
			err := util.Delete(loc.path())
			erase()
			handleErr(err)

			fmt.Printf("%s %s removed\n", icon.Get(icon.Success), util.Capitalize(loc.name))
		}
	},
}
