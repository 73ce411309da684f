package cli

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/marketlens/logocache/internal/config"
	"github.com/marketlens/logocache/internal/resolver"
)

// newResolveCmd creates the "resolve" command. It resolves one ticker and
// prints the record as JSON. With --check it additionally probes each
// candidate with a HEAD request, feeding failures back into the fallback
// walker, and prints the first reachable candidate or the initials
// placeholder when the chain is exhausted.
func newResolveCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "resolve SYMBOL",
		Short: "Resolve a ticker to its logo candidate chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			r := buildResolver(cfg, logger)
			rec, err := r.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rec); err != nil {
				return err
			}

			if !check {
				return nil
			}
			return runCheck(cmd, cfg, rec)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "probe candidates with HEAD requests and walk the fallback chain")

	return cmd
}

// runCheck drives a Walker over the record's candidate chain, probing each
// current candidate and reporting failures until one is reachable or the
// chain is exhausted.
func runCheck(cmd *cobra.Command, cfg config.Config, rec resolver.Record) error {
	probe := &http.Client{Timeout: cfg.RequestTimeout}

	w := resolver.NewWalker()
	w.Bind(rec)

	for {
		candidate, ok := w.Current()
		if !ok {
			cmd.Printf("all candidates failed; placeholder: %s\n", w.Placeholder())
			return nil
		}

		if probeCandidate(cmd.Context(), probe, candidate) {
			cmd.Printf("reachable: %s\n", candidate)
			return nil
		}

		logger.Debug().Str("url", candidate).Msg("candidate probe failed")
		if err := w.ReportFailure(candidate); err != nil {
			return err
		}
	}
}

// probeCandidate reports whether url answers a HEAD request with a 2xx.
func probeCandidate(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
}
