// Package cli implements the logocache command tree.
package cli

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/marketlens/logocache/internal/config"
	"github.com/marketlens/logocache/internal/logging"
	"github.com/marketlens/logocache/internal/resolver"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // set once in PersistentPreRunE

// NewRootCmd creates the root command for the logocache CLI.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logocache",
		Short:   "Ticker logo resolution cache",
		Long:    "logocache resolves stock tickers to displayable logo URLs through an unreliable multi-provider chain, with coalesced lookups and TTL caching",
		Version: ver,
		Example: `  # Resolve a single ticker
  logocache resolve NVDA

  # Resolve and probe the fallback chain until a reachable candidate is found
  logocache resolve NVDA --check

  # Pre-resolve a watchlist
  logocache warm AAPL MSFT TSLA

  # Run the HTTP sidecar
  logocache serve --listen :8080`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			root := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			ctx, traced := logging.WithTraceID(cmd.Context(), root)
			logger = logging.ComponentLogger(traced, "cli")
			cmd.SetContext(ctx)

			logger.Debug().Str("command", cmd.Name()).Msg("command started")
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to YAML config file")
	cmd.AddCommand(newResolveCmd(), newWarmCmd(), newServeCmd())

	return cmd
}

// loadConfig resolves the effective configuration for a command run,
// applying the --debug flag on top of file and environment settings.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = logging.FormatConsole
	}

	return cfg, nil
}

// buildResolver assembles the resolver stack from configuration.
func buildResolver(cfg config.Config, log zerolog.Logger) *resolver.Resolver {
	store := resolver.NewStore(cfg.SuccessTTL, cfg.DegradedTTL)
	client := resolver.NewClient(
		cfg.Endpoint,
		cfg.FallbackTemplate,
		&http.Client{Timeout: cfg.RequestTimeout},
		log,
	)
	return resolver.New(store, client, cfg.WarmConcurrency, log)
}
