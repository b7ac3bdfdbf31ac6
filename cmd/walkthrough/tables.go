// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/walkthrough/internal/table"
	"github.com/pdiddy/walkthrough/pkg/types"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <document>",
	Short: "Print the table rows extracted from a work list",
	Long: `Tables extracts the description tables of a document (pdf, docx, html or
csv) and prints one record per row, keyed by the header cells. Use it to
see what build will match image titles against.`,
	Args: cobra.ExactArgs(1),
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg := types.TableConfig{
		DocumentPath: args[0],
		MaxFileSize:  viper.GetInt64("table.max_file_size"),
	}
	records, err := table.New(cfg, nil).Extract(context.Background(), cfg.DocumentPath)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
