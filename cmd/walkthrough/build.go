// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/walkthrough/internal/pipeline"
	"github.com/pdiddy/walkthrough/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the walkthrough package",
	Long: `Build unpacks the image archive, reads the work list, matches images to
works and writes the package: images/, index.html, the print PDF,
metadata.json, metadata.yaml, catalog.db and README.txt.

The output directory is deleted and recreated on every run.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"zip":               "zip",
			"pdf":               "pdf",
			"out":               "out",
			"sections":          "sections",
			"allow_missing":     "allow-missing",
			"no_print":          "no-print",
			"print.browser_bin": "browser-bin",
		})
	},
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("zip", "", "zip archive of artwork images (required)")
	buildCmd.Flags().String("pdf", "", "document listing the works: pdf, docx, html or csv (required)")
	buildCmd.Flags().String("out", pipeline.DefaultOutDir, "output directory (deleted and recreated)")
	buildCmd.Flags().String("sections", "", "YAML sections file replacing the built-in sections")
	buildCmd.Flags().Bool("allow-missing", false, "drop section orders with no artwork instead of failing")
	buildCmd.Flags().Bool("no-print", false, "skip the print PDF")
	buildCmd.Flags().String("browser-bin", "", "Chrome or Chromium binary used for printing")

	viper.SetDefault("catalog.write_yaml", true)
	viper.SetDefault("catalog.index_db", true)

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err := pipeline.Run(ctx, buildConfig(), os.Stdout)
	return err
}

// buildConfig assembles the build configuration from flags, environment
// and config file.
func buildConfig() types.BuildConfig {
	return types.BuildConfig{
		OutDir:       viper.GetString("out"),
		SectionsFile: viper.GetString("sections"),
		AllowMissing: viper.GetBool("allow_missing"),
		Archive: types.ArchiveConfig{
			ArchivePath: viper.GetString("zip"),
			WorkDir:     viper.GetString("archive.work_dir"),
		},
		Table: types.TableConfig{
			DocumentPath: viper.GetString("pdf"),
			MaxFileSize:  viper.GetInt64("table.max_file_size"),
		},
		Render: types.RenderConfig{
			Title:         viper.GetString("render.title"),
			DocumentTitle: viper.GetString("render.document_title"),
		},
		Print: types.PrintConfig{
			Enabled:          !viper.GetBool("no_print"),
			FileName:         viper.GetString("print.file_name"),
			Subtitle:         viper.GetString("print.subtitle"),
			MaxImageDim:      viper.GetInt("print.max_image_dim"),
			JPEGQuality:      viper.GetInt("print.jpeg_quality"),
			MarginMM:         viper.GetFloat64("print.margin_mm"),
			ImageBoxHeightMM: viper.GetFloat64("print.image_box_height_mm"),
			BrowserBin:       viper.GetString("print.browser_bin"),
			Timeout:          viper.GetDuration("print.timeout"),
		},
		Catalog: types.CatalogConfig{
			WriteYAML: viper.GetBool("catalog.write_yaml"),
			IndexDB:   viper.GetBool("catalog.index_db"),
		},
	}
}
