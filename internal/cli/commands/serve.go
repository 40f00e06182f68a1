package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uhco-curriculum/lomap/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve taxonomies, mappings and the dashboard over HTTP",
		Long: `Start the JSON API used by the mapping form.

Endpoints:
  GET  /api/taxonomies                    configured taxonomies
  GET  /api/taxonomies/{name}/paths       flattened path table
  GET  /api/taxonomies/{name}/options     options for the next level (?choice=...)
  GET  /api/taxonomies/{name}/select      resolved leaf (?choice=...)
  GET  /api/reference                     controlled vocabularies
  GET  /api/mappings                      saved mappings (?year=&semester=&course=)
  POST /api/mappings                      save a learning objective
  GET  /api/dashboard                     distributions (?year=&semester=)
  GET  /api/events                        reload events (server-sent)`,
		Example: `  lomap serve
  lomap serve --addr 127.0.0.1:9000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			if cmd.Flags().Changed("addr") {
				c.Cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				c.Cfg.Server.Watch = watch
			}

			if err := c.LoadTaxonomies(cmd.Context()); err != nil {
				return err
			}
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Addr:      c.Cfg.Server.Addr,
				Registry:  c.Registry,
				Store:     store,
				Source:    c.Workbook,
				WatchPath: c.Cfg.Workbook,
				Watch:     c.Cfg.Server.Watch,
				Logger:    c.Logger,
			})
			c.Renderer.Success(fmt.Sprintf("Serving on %s", c.Cfg.Server.Addr))
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload taxonomies when the workbook changes")
	return cmd
}
