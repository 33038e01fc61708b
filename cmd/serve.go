package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/cleanup"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/open"
	"github.com/videocatcher/videocatcher/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddr, serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().BoolP("open", "o", false, "Open the web page in the default browser once listening")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web service",
	Long: `Run the web service: the download form and API, per-user cookie uploads,
the administrator cookie panel and the metrics endpoint.

Persisted downloads and expired user cookies are swept in the background.`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Console()
		CheckDependencies()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service := catcher.New()
		srv := server.New(service)

		go cleanup.Run(ctx, cleanup.DefaultOptions(srv.Downloads, service.Credentials.Purge))

		addr := viper.GetString(key.ServerAddr)
		if lo.Must(cmd.Flags().GetBool("open")) {
			go func() {
				if err := open.Start(browserURL(addr)); err != nil {
					log.Warnf("open browser: %s", err)
				}
			}()
		}

		if srv.AdminPassword == "" {
			log.Warn("no admin password configured, the admin panel is disabled")
		}

		handleErr(srv.Serve(ctx, addr))
	},
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
