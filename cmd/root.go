// Package cmd wires the videocatcher command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/util"
	"github.com/videocatcher/videocatcher/version"
	"github.com/videocatcher/videocatcher/where"
)

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Download videos from YouTube, TikTok and Instagram",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    videos from YouTube, TikTok and Instagram, in the browser or the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}
		handleErr(cmd.Help())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()

	rootCmd.Flags().BoolP("version", "v", false, "Print the version")

	flags.StringP("icons", "I", "", "Icon variant: "+strings.Join(icon.AvailableVariants(), ", "))
	lo.Must0(viper.BindPFlag(key.IconsVariant, flags.Lookup("icons")))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveNoFileComp
	}))

	flags.BoolP("write-history", "H", true, "Record successful requests in the history")
	lo.Must0(viper.BindPFlag(key.HistorySave, flags.Lookup("write-history")))

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		version.Notify(cmd.Context())
	})

	// leftovers from interrupted downloads
	go util.Ignore(func() error { return util.Delete(where.Temp()) })
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		handleErr(err)
	}
}

// describe renders err for the terminal, tagging classified failures with their kind.
func describe(err error) string {
	msg := strings.TrimSpace(failure.Message(err))

	var ferr *failure.Error
	if errors.As(err, &ferr) {
		return style.Faint("["+ferr.Kind.String()+"]") + " " + msg
	}
	return msg
}

// handleErr logs err, prints it and exits. A nil err is a no-op.
func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)
	fmt.Fprintln(os.Stderr, style.Fg(color.Red)(icon.Get(icon.Fail)), describe(err))
	os.Exit(1)
}
