package cli

import (
	"github.com/spf13/cobra"

	"github.com/pbitools/semgraph/internal/server"
)

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve model graphs over a JSON API",
		Long: `Start an HTTP server exposing the discovered models:

  GET /api/models                          model names and stats
  GET /api/models/{name}                   full graph for one model
  GET /api/models/{name}/highlight         highlight for ?table=&mode=&visible=

With --watch, changes to relationship files under the search path trigger a
re-discovery and the served graphs update in place.`,
		Example: `  # Serve models found under the current directory
  semgraph serve

  # Serve a specific root on another port, rebuilding on file changes
  semgraph serve --search-path ./reports --port 9000 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().Int("port", 0, "Port to listen on")
	cmd.Flags().Bool("watch", false, "Re-discover models when relationship files change")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	reg, err := loadRegistry(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("discovered models", "count", reg.Count())

	srv := server.New(server.Config{
		Registry:   reg,
		SearchPath: cfg.SearchPath,
		Port:       cfg.Server.Port,
		Watch:      cfg.Server.Watch,
		Logger:     logger,
	})
	return srv.Serve(cmd.Context())
}
