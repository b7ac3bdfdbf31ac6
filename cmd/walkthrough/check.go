// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/walkthrough/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check archive, work list and sections without writing a package",
	Long: `Check resolves images against the work list and the sections and reports
fallback titles, skipped files and section coverage. Nothing is written.
It fails when a section lists an order with no image.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"zip":      "zip",
			"pdf":      "pdf",
			"sections": "sections",
		})
	},
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("zip", "", "zip archive of artwork images (required)")
	checkCmd.Flags().String("pdf", "", "document listing the works (required)")
	checkCmd.Flags().String("sections", "", "YAML sections file replacing the built-in sections")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cr, err := pipeline.Check(context.Background(), buildConfig(), os.Stdout)
	if err != nil {
		return err
	}
	if n := len(cr.Coverage.Missing); n > 0 {
		return fmt.Errorf("%d section order(s) have no artwork", n)
	}
	return nil
}
