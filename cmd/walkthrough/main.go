// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the walkthrough CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the walkthrough CLI.
var rootCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Build an offline exhibition walkthrough from an image archive and a work list",
	Long: `walkthrough turns a zip archive of numbered artwork images and a document
listing the works (pdf, docx, html or csv) into a walkthrough package: an
offline index.html, a print-ready PDF, metadata.json and a searchable
catalog index.

Image files are named <order>_<title>.<webp|png|jpg|jpeg>; titles are matched
against the title column of the document's tables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetString("log_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./walkthrough.yaml or ~/.config/walkthrough/walkthrough.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("walkthrough")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "walkthrough"))
		}
	}

	viper.SetEnvPrefix("WALKTHROUGH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs a text handler on stderr as the default logger.
func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens
// per command at run time so commands sharing a flag name do not clash.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
