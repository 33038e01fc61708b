package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/icon"
	"github.com/videocatcher/videocatcher/style"
	"github.com/videocatcher/videocatcher/util"
)

func init() {
	rootCmd.AddCommand(cookiesCmd)
	cookiesCmd.PersistentFlags().StringP("user", "u", "", "Operate on this user's cookies instead of the shared cookies.txt")
}

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Manage stored cookies",
	Long: `Manage the shared cookies.txt and per-user cookie uploads.

Per-user cookies are preferred while they are valid; the shared file is used otherwise.`,
}

func init() {
	cookiesCmd.AddCommand(cookiesUploadCmd)
}

var cookiesUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Store a Netscape cookies.txt file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		handleErr(err)
		defer util.Ignore(f.Close)

		store := credential.Default()
		user := lo.Must(cmd.Flags().GetString("user"))

		var status credential.Status
		if user == "" {
			status, err = store.UploadGlobal(f)
		} else {
			status, err = store.Upload(user, f)
		}
		handleErr(err)

		fmt.Printf("%s cookies stored\n", icon.Get(icon.Cookie))
		printCookieStatus(user, status)
	},
}

func init() {
	cookiesCmd.AddCommand(cookiesDeleteCmd)
}

var cookiesDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Delete stored cookies",
	Run: func(cmd *cobra.Command, args []string) {
		store := credential.Default()
		user := lo.Must(cmd.Flags().GetString("user"))

		if user == "" {
			handleErr(store.DeleteGlobal())
		} else {
			handleErr(store.Delete(user))
		}
		fmt.Printf("%s cookies deleted\n", icon.Get(icon.Success))
	},
}

func init() {
	cookiesCmd.AddCommand(cookiesStatusCmd)
	cookiesStatusCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var cookiesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether cookies are stored and until when they are used",
	Run: func(cmd *cobra.Command, args []string) {
		store := credential.Default()
		user := lo.Must(cmd.Flags().GetString("user"))

		status := lo.TernaryF(user == "", store.GlobalStatus, func() credential.Status {
			return store.Status(user)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(status))
			return
		}

		printCookieStatus(user, status)

		if user == "" {
			users, err := store.Users()
			handleErr(err)
			fmt.Printf("%s\n", style.Faint(util.Quantify(len(users), "user upload", "user uploads")))
		}
	},
}

func printCookieStatus(user string, status credential.Status) {
	name := lo.Ternary(user == "", "cookies.txt", user)

	if !status.Present {
		fmt.Printf("%s %s: none\n", icon.Get(icon.Warn), name)
		return
	}

	ok := !status.Expired
	mark := style.Fg(color.Outcome(ok))(icon.Get(lo.Ternary(ok, icon.Success, icon.Fail)))

	switch {
	case user == "":
		fmt.Printf("%s %s: uploaded %s\n", mark, name, status.UploadedAt.Local().Format(time.DateTime))
	case status.Expired:
		fmt.Printf("%s %s: expired at %s\n", mark, name, status.ExpiresAt.Local().Format(time.DateTime))
	default:
		fmt.Printf("%s %s: valid until %s\n", mark, name, status.ExpiresAt.Local().Format(time.DateTime))
	}
}
