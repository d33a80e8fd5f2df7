package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Print title completions for a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		suggestions, err := client.Suggest(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("suggest failed: %w", err)
		}
		if suggestions == nil {
			suggestions = []string{}
		}
		return printJSON(cmd, suggestions)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
