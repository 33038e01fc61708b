package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify(cmd.Context())

		rows := [][2]string{
			{"version", constant.Version},
			{"commit", constant.Revision},
			{"built", strings.TrimSpace(constant.BuiltAt)},
			{"by", constant.BuiltBy},
			{"platform", runtime.GOOS + "/" + runtime.GOARCH},
			{"go", runtime.Version()},
		}

		cmd.Println(style.Fg(color.Purple)(style.Bold(constant.App)))
		for _, row := range rows {
			cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-10s", row[0])), style.Bold(row[1]))
		}
	},
}
