package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/inline"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/platform"
	"github.com/videocatcher/videocatcher/query"
	"github.com/videocatcher/videocatcher/tui"
	"github.com/videocatcher/videocatcher/util"
	"github.com/videocatcher/videocatcher/where"
)

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringP("platform", "p", "auto", "Platform of the URLs, detected when auto")
	lo.Must0(getCmd.RegisterFlagCompletionFunc("platform", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return append([]string{"auto"}, platform.Names()...), cobra.ShellCompDirectiveNoFileComp
	}))

	getCmd.Flags().StringP("user", "u", "", "Use the cookies uploaded for this user id")
	getCmd.Flags().StringP("output", "o", "", `Save into this directory, or "-" to write the media to stdout`)
	getCmd.Flags().BoolP("save", "s", false, "Save into the downloads directory")
	getCmd.Flags().BoolP("json", "j", false, "Report the results as JSON")
	getCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output and exit")
	getCmd.Flags().BoolP("merge", "m", false, "Let the extractor download and merge separate video and audio streams")

	getCmd.Flags().Bool("progress", true, "Show a progress bar while saving")
	lo.Must0(viper.BindPFlag(key.CliProgress, getCmd.Flags().Lookup("progress")))

	getCmd.MarkFlagsMutuallyExclusive("output", "save")
}

var getCmd = &cobra.Command{
	Use:   "get [URL...]",
	Short: "Resolve or download videos from the command line",
	Long: `Resolve each URL to its best directly downloadable format.

Without --output only the direct media URL is printed.
With --output DIR the media is saved into DIR; with --output - it is written to stdout.
When no URL is given you are prompted for one, with suggestions from the history.`,
	Example: `  videocatcher get https://youtu.be/dQw4w9WgXcQ
  videocatcher get -o ~/Videos https://www.tiktok.com/@user/video/123
  videocatcher get --json https://www.instagram.com/reel/abc/`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(inline.Schema()))
			return
		}

		p, err := platform.Parse(lo.Must(cmd.Flags().GetString("platform")))
		handleErr(err)

		urls := args
		if len(urls) == 0 {
			url, err := promptURL()
			handleErr(err)
			urls = []string{url}
		}

		CheckDependencies()

		output := lo.Must(cmd.Flags().GetString("output"))
		if lo.Must(cmd.Flags().GetBool("save")) {
			output = where.Downloads()
		}

		options := &inline.Options{
			Out:      os.Stdout,
			Service:  catcher.New(),
			URLs:     urls,
			Platform: p,
			User:     lo.Must(cmd.Flags().GetString("user")),
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Output:   output,
			Merge:    lo.Must(cmd.Flags().GetBool("merge")),
		}

		if showProgress(options) {
			handleErr(runWithProgress(cmd.Context(), options))
			return
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}

func promptURL() (string, error) {
	if !util.IsTerminal(os.Stdin) {
		return "", inline.ErrNoURL
	}

	input := &survey.Input{
		Message: "Video URL",
		Help:    "A YouTube, TikTok or Instagram page URL",
		Suggest: query.SuggestMany,
	}

	var response string
	if err := survey.AskOne(input, &response, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

// showProgress reports whether a save into a directory can be drawn on the terminal.
func showProgress(options *inline.Options) bool {
	return viper.GetBool(key.CliProgress) &&
		options.Output != "" &&
		options.Output != inline.StdoutOutput &&
		!options.Merge &&
		!options.Json &&
		util.IsTerminal(os.Stdout)
}

func runWithProgress(ctx context.Context, options *inline.Options) error {
	var out bytes.Buffer
	options.Out = &out

	for _, url := range options.URLs {
		err := tui.Run(ctx, url, func(ctx context.Context, tracker *tui.Tracker) error {
			single := *options
			single.URLs = []string{url}
			single.Tracker = tracker
			return inline.Run(ctx, &single)
		})

		if errors.Is(err, context.Canceled) {
			return errors.New("download canceled")
		}
		if err != nil {
			return err
		}
	}

	fmt.Print(out.String())
	return nil
}
