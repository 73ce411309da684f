package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newWarmCmd creates the "warm" command: batch pre-resolution of tickers
// given as arguments or read from a file, one symbol per line.
func newWarmCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "warm [SYMBOL...]",
		Short: "Pre-resolve a batch of tickers",
		Long:  "Pre-resolve a batch of tickers so a subsequent list render hits only the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := args
			if file != "" {
				fromFile, err := readSymbolFile(file)
				if err != nil {
					return err
				}
				symbols = append(symbols, fromFile...)
			}
			if len(symbols) == 0 {
				return errors.New("no symbols given; pass arguments or --file")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			r := buildResolver(cfg, logger)
			if err := r.Warm(cmd.Context(), symbols); err != nil {
				return fmt.Errorf("warming cache: %w", err)
			}

			cmd.Printf("warmed %d symbols\n", len(symbols))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one ticker symbol per line")

	return cmd
}

// readSymbolFile reads one symbol per line, skipping blanks and # comments.
func readSymbolFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening symbol file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading symbol file: %w", err)
	}
	return symbols, nil
}
