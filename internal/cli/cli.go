//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-salesdash.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/source"
	"github.com/pgEdge/pgedge-salesdash/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	dataPath   string
	sourceType string
	connection string
	table      string
	logLevel   string
	logFormat  string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-salesdash",
		Short: "Sales analytics dashboard with RFM customer segmentation",
		Long: `pgedge-salesdash loads a table of online sales transactions and
serves an interactive dashboard over it: sales overview, the filtered data
table with CSV download, RFM customer segmentation, product insights and
sales trends.

The dataset is read from a CSV file (--data or SALESDASH_DATA), or from a
PostgreSQL or MySQL table. The same views are available from the command
line through the report, rfm and export commands.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-salesdash.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"input CSV file (default: $"+config.DataEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&sourceType, "source", "",
		"dataset source: csv, postgres, mysql")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"database connection string for the postgres and mysql sources")
	rootCmd.PersistentFlags().StringVar(&table, "table", "",
		"orders table for database sources")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format (console, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(rfmCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(profilesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if dataPath != "" {
		cfg.Source.Path = dataPath
	}
	if sourceType != "" {
		cfg.Source.Type = sourceType
	}
	if connection != "" {
		cfg.Source.Connection = connection
	}
	if table != "" {
		cfg.Source.Table = table
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	// Reinitialize logger with config
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Format = cfg.LogFormat
	logging.Init(logCfg)

	return nil
}

// loadBase validates the source configuration and loads the base table.
func loadBase(ctx context.Context) (*dataset.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := source.NewStore(cfg.Source)
	if err != nil {
		return nil, err
	}
	return store.Base(ctx)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available dataset sources",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available dataset sources:")
		cmd.Println()
		for _, name := range source.List() {
			src, _ := source.Get(name)
			cmd.Printf("  %-9s - %s\n", name, src.Description())
		}
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available activity profiles for generated data",
	Long: `List the activity profiles used by 'generate' to distribute order
hours and weekdays across the week.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available activity profiles:")
		cmd.Println()
		for _, name := range profiles.List() {
			p, _ := profiles.Get(name)
			cmd.Printf("  %-14s - %s\n", name, p.Description())
		}
	},
}
