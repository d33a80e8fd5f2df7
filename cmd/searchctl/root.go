package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/hybridsearch/internal/version"
	hybridsearch "github.com/kailas-cloud/hybridsearch/pkg/sdk"
)

var (
	esHost    string
	esAPIKey  string
	esIndex   string
	esTimeout time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:           "searchctl",
	Short:         "Query the hybrid search indexes",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&esHost, "host", os.Getenv("ES_HOST"), "Elasticsearch URL (env ES_HOST)")
	flags.StringVar(&esAPIKey, "api-key", os.Getenv("ES_API_KEY"), "API key (env ES_API_KEY)")
	flags.StringVar(&esIndex, "combined-index", envOr("ES_INDEX", "search-emory-combined"),
		"combined index name (env ES_INDEX)")
	flags.DurationVar(&esTimeout, "timeout", 10*time.Second, "request timeout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log operations to stderr")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient(cmd *cobra.Command) (*hybridsearch.Client, error) {
	if esHost == "" {
		return nil, errors.New("--host or ES_HOST is required")
	}
	opts := []hybridsearch.Option{
		hybridsearch.WithElasticsearch(esHost, esAPIKey, esIndex),
		hybridsearch.WithTimeout(esTimeout),
	}
	if verbose {
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, hybridsearch.WithLogger(slog.New(handler)))
	}
	return hybridsearch.New(opts...)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
