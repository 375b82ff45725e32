//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-salesdash.
// Configuration is loaded from config files and CLI flags. The only
// environment variable consulted is SALESDASH_DATA, the input file path.
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DataEnvVar names the environment variable holding the input file path.
const DataEnvVar = "SALESDASH_DATA"

// Source types.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
)

// Config holds all configuration for pgedge-salesdash.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogFormat is "console" or "json".
	LogFormat string `mapstructure:"log_format"`

	// Source describes where the order dataset is read from.
	Source SourceConfig `mapstructure:"source"`

	// Serve holds configuration for the serve subcommand.
	Serve ServeConfig `mapstructure:"serve"`

	// RFM bounds the temporal fields accepted by the segmentation.
	RFM RFMConfig `mapstructure:"rfm"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// SourceConfig selects and locates the dataset.
type SourceConfig struct {
	// Type is csv, postgres or mysql.
	Type string `mapstructure:"type"`

	// Path is the CSV file for the csv source.
	Path string `mapstructure:"path"`

	// Connection is the database URL or DSN for database sources.
	Connection string `mapstructure:"connection"`

	// Table is the orders table for database sources.
	Table string `mapstructure:"table"`
}

// ServeConfig holds configuration for the HTTP dashboard.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// TableRows is how many rows the data table panel shows.
	TableRows int `mapstructure:"table_rows"`

	// TopProducts is the length of the product ranking.
	TopProducts int `mapstructure:"top_products"`

	// ShutdownTimeout is the graceful shutdown bound in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

// RFMConfig holds the accepted order year range.
type RFMConfig struct {
	MinYear int `mapstructure:"min_year"`
	MaxYear int `mapstructure:"max_year"`
}

// GenerateConfig holds configuration for synthetic dataset generation.
type GenerateConfig struct {
	// Output is csv or postgres.
	Output string `mapstructure:"output"`

	// Path is the CSV file written when Output is csv.
	Path string `mapstructure:"path"`

	// Customers is the number of distinct customers.
	Customers int `mapstructure:"customers"`

	// Invoices is the number of invoices across all customers.
	Invoices int `mapstructure:"invoices"`

	// StartYear and EndYear bound the order dates (inclusive).
	StartYear int `mapstructure:"start_year"`
	EndYear   int `mapstructure:"end_year"`

	// RefundRate is the fraction of line items that are refunds.
	RefundRate float64 `mapstructure:"refund_rate"`

	// MissingCustomerRate is the fraction of invoices without a customer.
	MissingCustomerRate float64 `mapstructure:"missing_customer_rate"`

	// Profile shapes the order hour and weekday distribution.
	Profile string `mapstructure:"profile"`

	// Seed makes the dataset reproducible.
	Seed int64 `mapstructure:"seed"`

	// DropExisting drops the orders table before loading.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Source: SourceConfig{
			Type:  SourceCSV,
			Table: "sales_orders",
		},
		Serve: ServeConfig{
			Addr:            ":8050",
			TableRows:       100,
			TopProducts:     10,
			ShutdownTimeout: 10,
		},
		RFM: RFMConfig{
			MinYear: 1900,
			MaxYear: 2100,
		},
		Generate: GenerateConfig{
			Output:              SourceCSV,
			Path:                "sales_data.csv",
			Customers:           500,
			Invoices:            5000,
			StartYear:           2023,
			EndYear:             2024,
			RefundRate:          0.05,
			MissingCustomerRate: 0.02,
			Profile:             "store-regional",
			Seed:                1,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-salesdash.yaml
// 3. ~/.config/pgedge-salesdash/pgedge-salesdash.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-salesdash")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-salesdash"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.BindEnv("source.path", DataEnvVar); err != nil {
		return nil, fmt.Errorf("error binding %s: %w", DataEnvVar, err)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the dataset source is fully described.
func (c *Config) Validate() error {
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'console' or 'json'")
	}
	switch c.Source.Type {
	case SourceCSV:
		if c.Source.Path == "" {
			return fmt.Errorf("input file is required (--data or %s)", DataEnvVar)
		}
	case SourcePostgres, SourceMySQL:
		if c.Source.Connection == "" {
			return fmt.Errorf("connection string is required for the %s source", c.Source.Type)
		}
		if c.Source.Table == "" {
			return fmt.Errorf("table name is required for the %s source", c.Source.Type)
		}
	default:
		return fmt.Errorf("unknown source type %q (valid: csv, postgres, mysql)", c.Source.Type)
	}
	return c.ValidateRFM()
}

// ValidateRFM checks the accepted year range.
func (c *Config) ValidateRFM() error {
	if c.RFM.MinYear < 1 {
		return fmt.Errorf("rfm.min_year must be at least 1")
	}
	if c.RFM.MaxYear < c.RFM.MinYear {
		return fmt.Errorf("rfm.max_year must be >= rfm.min_year")
	}
	return nil
}

// ValidateServe checks configuration required for the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Serve.TableRows < 0 {
		return fmt.Errorf("table_rows must be non-negative")
	}
	if c.Serve.TopProducts < 1 {
		return fmt.Errorf("top_products must be at least 1")
	}
	if c.Serve.ShutdownTimeout < 1 {
		return fmt.Errorf("shutdown_timeout must be at least 1 second")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	g := c.Generate
	switch g.Output {
	case SourceCSV:
		if g.Path == "" {
			return fmt.Errorf("output path is required for csv output")
		}
	case SourcePostgres:
		if c.Source.Connection == "" {
			return fmt.Errorf("connection string is required for postgres output")
		}
		if c.Source.Table == "" {
			return fmt.Errorf("table name is required for postgres output")
		}
	default:
		return fmt.Errorf("generate.output must be 'csv' or 'postgres'")
	}
	if g.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if g.Invoices < g.Customers {
		return fmt.Errorf("invoices must be >= customers")
	}
	if g.EndYear < g.StartYear {
		return fmt.Errorf("end_year must be >= start_year")
	}
	if g.StartYear < c.RFM.MinYear || g.EndYear > c.RFM.MaxYear {
		return fmt.Errorf("generated years must lie within rfm.min_year and rfm.max_year")
	}
	if g.RefundRate < 0 || g.RefundRate >= 1 {
		return fmt.Errorf("refund_rate must be in [0, 1)")
	}
	if g.MissingCustomerRate < 0 || g.MissingCustomerRate >= 1 {
		return fmt.Errorf("missing_customer_rate must be in [0, 1)")
	}
	return nil
}
