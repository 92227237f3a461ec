package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rejot-dev/qakit/internal/config"
	"github.com/rejot-dev/qakit/internal/mcp"
	"github.com/rejot-dev/qakit/internal/web"
)

type serveOptions struct {
	address string
	mcp     bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front-end and JSON API, and optionally the MCP tool server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.load()
			if err != nil {
				return err
			}

			address := app.config.Server.Address
			if opts.address != "" {
				address = opts.address
			}
			if opts.mcp && app.config.MCP == nil {
				app.config.MCP = &config.MCP{Enabled: true, Address: "localhost", Port: 7777}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, app, address)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "", "listen address for the web server (default from config)")
	cmd.Flags().BoolVar(&opts.mcp, "mcp", false, "also start the MCP tool server")

	return cmd
}

// serve runs the web server and, when enabled, the MCP server until ctx is
// cancelled or either of them fails.
func serve(ctx context.Context, app *app, address string) error {
	g, ctx := errgroup.WithContext(ctx)

	webServer := web.NewServer(address, app.testCases, app.qa)
	g.Go(func() error {
		return webServer.Run(ctx)
	})

	if mcpCfg := app.config.MCP; mcpCfg != nil && mcpCfg.Enabled {
		handler := mcp.NewToolsResourcesHandler(app.config, app.testCases, app.qa)
		mcpServer := mcp.NewServer(mcpCfg.Address, mcpCfg.Port, handler)
		g.Go(func() error {
			return mcpServer.Run(ctx)
		})
	}

	log.Info("qakit is serving", "provider", app.config.Provider, "model", app.config.Model)
	return g.Wait()
}
