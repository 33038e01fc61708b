package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/history"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.PersistentFlags().BoolP("json", "j", false, "Format the output as JSON")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show, remove or clear past requests",
	Run: func(cmd *cobra.Command, args []string) {
		historyListCmd.Run(cmd, args)
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().IntP("limit", "n", 0, "Show at most this many of the newest entries")
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past requests, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.Default().Get()
		handleErr(err)

		entries = lo.Reverse(entries)
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(entries))
			return
		}

		if len(entries) == 0 {
			fmt.Printf("%s No history yet\n", icon.Get(icon.History))
			return
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil && w > 0 {
			width = w
		}

		for _, e := range entries {
			title := lo.CoalesceOrEmpty(e.Title, e.URL)
			fmt.Printf("%s %s %s\n",
				style.Platform(e.Platform)(e.Platform),
				truncate.StringWithTail(title, uint(util.AtLeast(width-30, 20)), "…"),
				style.Faint(e.Timestamp.Local().Format(time.DateTime)),
			)
			fmt.Printf("  %s %s\n", style.Faint(e.ID[:8]), style.Fg(color.Blue)(e.URL))
		}
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove an entry by id or id prefix",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log := history.Default()
		entries, err := log.Get()
		handleErr(err)

		matches := lo.Filter(entries, func(e *history.Entry, _ int) bool {
			return len(args[0]) >= 4 && len(e.ID) >= len(args[0]) && e.ID[:len(args[0])] == args[0]
		})

		switch len(matches) {
		case 0:
			handleErr(fmt.Errorf("no history entry with id %s", args[0]))
		case 1:
		default:
			handleErr(fmt.Errorf("id %s is ambiguous, %s", args[0], util.Quantify(len(matches), "entry matches", "entries match")))
		}

		_, err = log.Remove(matches[0].ID)
		handleErr(err)
		fmt.Printf("%s removed %s\n", icon.Get(icon.Success), matches[0])
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Default().Clear())
		fmt.Printf("%s history cleared\n", icon.Get(icon.Success))
	},
}
