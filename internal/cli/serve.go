// internal/cli/serve.go
package synod

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mwiater/synod/internal/logging"
	"github.com/mwiater/synod/internal/storage"
	"github.com/mwiater/synod/internal/web"
)

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web API server",
	Long: `The 'serve' command starts the HTTP API that drives the browser frontend:
conversation management, council runs, and stage-by-stage event streaming.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		engine, err := buildEngine(cfg)
		if err != nil {
			return err
		}

		store := storage.New(cfg.DataDirPath())
		server := web.NewServer(store, engine, cfg.Origins())

		addr := cfg.ListenAddress()
		logging.LogEvent("[WEB] listening on %s (data dir %s)", addr, cfg.DataDirPath())
		return http.ListenAndServe(addr, server.Handler())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
