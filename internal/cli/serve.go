package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svcmap/internal/server"
	"github.com/matzehuels/svcmap/pkg/cache"
	"github.com/matzehuels/svcmap/pkg/config"
	"github.com/matzehuels/svcmap/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		viewTTL   time.Duration
		keyPrefix string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

POST /api/layout lays out a snapshot statelessly. /api/views holds
incremental layout views that accept topology updates and card
measurements from a renderer.

With cache.backend = "redis" several replicas can share one cache; the
key prefix keeps their entries apart from other tenants of the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cc, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			var keyer cache.Keyer
			if keyPrefix != "" {
				keyer = cache.NewScopedKeyer(nil, keyPrefix)
			}
			runner := pipeline.NewRunner(cc, keyer, c.Logger)
			runner.TTL = c.Config.Cache.TTL.Duration
			defer runner.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			srv := server.New(server.Config{
				Addr:    addr,
				Layout:  c.Config.Layout(),
				ViewTTL: viewTTL,
			}, runner, c.Logger)

			w := cmd.ErrOrStderr()
			printInfo(w, "Serving layout API")
			printKeyValue(w, "listen", addr)
			printKeyValue(w, "cache", cacheLabel(noCache, c.Config.Cache.Backend))
			printKeyValue(w, "view ttl", viewTTL.String())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8090)")
	cmd.Flags().DurationVar(&viewTTL, "view-ttl", server.DefaultViewTTL, "idle lifetime of a layout view")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", appName+":", "prefix for cache keys")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the frame cache")

	return cmd
}

func cacheLabel(noCache bool, backend string) string {
	if noCache {
		return config.BackendNone
	}
	return backend
}
