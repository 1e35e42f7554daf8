// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <title>",
	Short: "Ask the backend for a summary of an article",
	Long: `Summarize sends a title and abstract to the backend and prints the
summary. The abstract comes from --abstract, or from stdin when --abstract
is "-".`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("abstract", "", `article abstract ("-" reads stdin)`)
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	abstract, _ := cmd.Flags().GetString("abstract")
	if abstract == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading abstract: %w", err)
		}
		abstract = strings.TrimSpace(string(data))
	}

	api, err := newBackend()
	if err != nil {
		return err
	}
	summary, err := api.Summarize(context.Background(), args[0], abstract)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
