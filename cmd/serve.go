package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/server"
	"github.com/triahq/tria/internal/ui"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API",
	Long: `Serve the scoring API over HTTP for editors, scripts, and dashboards.

The server binds to server.addr from the workspace config (default
127.0.0.1:7337) unless --addr overrides it.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.addr, "addr", "a", "", "Listen address (host:port)")
}

func runServe(_ *cobra.Command, _ []string) error {
	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := appCfg.Server.Addr
	if serveFlags.addr != "" {
		addr = serveFlags.addr
	}

	db, configs, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(configs, items, newScorer(appCfg), time.Now)

	ui.Inf(fmt.Sprintf("Serving on %s", ui.Accent.Render("http://"+addr)))
	ui.Tip("Stop with Ctrl+C")
	return http.ListenAndServe(addr, srv.Handler())
}
