// Package config loads the application configuration from YAML.
//
// A missing config file is not an error: Load falls back to defaults,
// so the tool works out of the box with a local data directory.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend selects the storage implementation.
type Backend string

const (
	BackendCSV    Backend = "csv"
	BackendSQLite Backend = "sqlite"
)

// Files names the individual store files inside the data directory.
// Only used by the csv backend.
type Files struct {
	Products    string `yaml:"products"`
	Suppliers   string `yaml:"suppliers"`
	Sales       string `yaml:"sales"`
	SaleLines   string `yaml:"sale_lines"`
	Orders      string `yaml:"orders"`
	OrderItems  string `yaml:"order_items"`
	Assignments string `yaml:"assignments"`
}

// Config is the application configuration.
type Config struct {
	DataDir  string  `yaml:"data_dir"`
	Backend  Backend `yaml:"backend"`
	Database string  `yaml:"database"` // sqlite backend only
	Files    Files   `yaml:"files"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DataDir:  "data",
		Backend:  BackendCSV,
		Database: "despensa.db",
		Files: Files{
			Products:    "products.csv",
			Suppliers:   "suppliers.csv",
			Sales:       "sales.csv",
			SaleLines:   "sale_lines.csv",
			Orders:      "orders.csv",
			OrderItems:  "order_items.csv",
			Assignments: "assignments.csv",
		},
	}
}

// Load reads the configuration at path. A missing file yields Default().
// Unknown fields are rejected (catches typos like "datadir:" vs
// "data_dir:"); fields left unset keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendCSV, BackendSQLite)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

// ProductsPath returns the product store path.
func (c *Config) ProductsPath() string { return filepath.Join(c.DataDir, c.Files.Products) }

// SuppliersPath returns the supplier store path.
func (c *Config) SuppliersPath() string { return filepath.Join(c.DataDir, c.Files.Suppliers) }

// SalesPath returns the sale header store path.
func (c *Config) SalesPath() string { return filepath.Join(c.DataDir, c.Files.Sales) }

// SaleLinesPath returns the sale line store path.
func (c *Config) SaleLinesPath() string { return filepath.Join(c.DataDir, c.Files.SaleLines) }

// OrdersPath returns the order header store path.
func (c *Config) OrdersPath() string { return filepath.Join(c.DataDir, c.Files.Orders) }

// OrderItemsPath returns the order detail store path.
func (c *Config) OrderItemsPath() string { return filepath.Join(c.DataDir, c.Files.OrderItems) }

// AssignmentsPath returns the supplier assignment store path.
func (c *Config) AssignmentsPath() string { return filepath.Join(c.DataDir, c.Files.Assignments) }

// DatabasePath returns the sqlite database path.
func (c *Config) DatabasePath() string { return filepath.Join(c.DataDir, c.Database) }
