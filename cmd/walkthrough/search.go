// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/walkthrough/internal/catalog"
	"github.com/pdiddy/walkthrough/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog index of a built package",
	Long: `Search runs a full-text query over the titles, techniques and
descriptions in catalog.db of a built package, optionally restricted to
one section.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("out", pipeline.DefaultOutDir, "package directory containing catalog.db")
	searchCmd.Flags().String("section", "", "filter by section id")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	sectionID, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.QueryOptions{
		Query:      strings.Join(args, " "),
		SectionID:  sectionID,
		MaxResults: limit,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --section")
	}

	dbPath := filepath.Join(outDir, catalog.DBFile)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no catalog index at %s: run build first: %w", dbPath, err)
	}
	store, err := catalog.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []catalog.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-30s  %-20s  %s\n", "Order", "Title", "Technique", "Section")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-5s  %-30s  %-20s  %s\n",
			fmt.Sprintf("%02d", r.Order), truncate(r.Title, 30), truncate(r.Technique, 20), r.SectionTitle)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
