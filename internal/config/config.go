// =============================================================================
// Salescope - Configuration Module
// =============================================================================
//
// This module loads the main application configuration from a YAML file.
// Defaults are applied for anything the file leaves unset, and the output
// and archive directories are created on load so later stages can assume
// they exist.
//
// CONFIGURATION FILE:
//   config.yaml - global application settings (paths, encodings, catalog
//   endpoint, analytics parameters, output naming)
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the pipe-delimited sales data file to process.
	// Default: "./data/sales_data.txt"
	InputFile string `yaml:"input_file"`

	// OutputDir is the directory where the report files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// EnrichedFile is the path for the enriched dataset written after the
	// catalog join.
	// Default: "./data/enriched_sales_data.txt"
	EnrichedFile string `yaml:"enriched_file"`

	// ArchiveDir is the directory where the input file is moved after a
	// successful run. Archival is skipped when ArchiveOnSuccess is false.
	// Default: "./data/archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveOnSuccess moves the input file to ArchiveDir after a
	// successful run.
	// Default: false
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// Encodings is the list of text encodings tried, in order, when
	// reading the input file. Supported values: "utf-8", "latin-1",
	// "cp1252".
	// Default: ["utf-8", "latin-1", "cp1252"]
	Encodings []string `yaml:"encodings"`

	// ReportNameFormat defines the report file name. Placeholders:
	//   {uuid}      - a random UUID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	// Default: "sales_report.txt"
	ReportNameFormat string `yaml:"report_name_format"`

	// =========================================================================
	// CATALOG SETTINGS
	// =========================================================================

	// CatalogURL is the base URL of the product catalog API.
	// Default: "https://dummyjson.com"
	CatalogURL string `yaml:"catalog_url"`

	// CatalogLimit is the maximum number of products fetched.
	// Default: 100
	CatalogLimit int `yaml:"catalog_limit"`

	// CatalogTimeoutSeconds is the HTTP timeout for the catalog fetch,
	// in seconds.
	// Default: 15
	CatalogTimeoutSeconds int `yaml:"catalog_timeout_seconds"`

	// =========================================================================
	// ANALYTICS SETTINGS
	// =========================================================================

	// TopN is the number of products in the top-seller ranking.
	// Default: 5
	TopN int `yaml:"top_n"`

	// LowPerformerThreshold marks products whose total quantity is below
	// this value as low performers.
	// Default: 10
	LowPerformerThreshold int `yaml:"low_performer_threshold"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls slog verbosity: "debug", "info", "warn", "error".
	// The --verbose flag overrides this to "debug".
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CatalogTimeout returns the catalog fetch timeout as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the configuration from a YAML file, applies defaults and
// creates the output directories. A missing file is not an error: the
// defaults describe a complete working setup.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := ensureDirectories(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets the environment (including a local .env loaded
// at startup) override file settings. Only deployment-specific values
// are overridable this way.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SALESCOPE_INPUT_FILE"); v != "" {
		cfg.InputFile = v
	}
	if v := os.Getenv("SALESCOPE_CATALOG_URL"); v != "" {
		cfg.CatalogURL = v
	}
	if v := os.Getenv("SALESCOPE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputFile == "" {
		cfg.InputFile = "./data/sales_data.txt"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.EnrichedFile == "" {
		cfg.EnrichedFile = "./data/enriched_sales_data.txt"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./data/archive"
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = []string{"utf-8", "latin-1", "cp1252"}
	}
	if cfg.ReportNameFormat == "" {
		cfg.ReportNameFormat = "sales_report.txt"
	}
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = "https://dummyjson.com"
	}
	if cfg.CatalogLimit == 0 {
		cfg.CatalogLimit = 100
	}
	if cfg.CatalogTimeoutSeconds == 0 {
		cfg.CatalogTimeoutSeconds = 15
	}
	if cfg.TopN == 0 {
		cfg.TopN = 5
	}
	if cfg.LowPerformerThreshold == 0 {
		cfg.LowPerformerThreshold = 10
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// ensureDirectories creates the directories the pipeline writes into.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.OutputDir,
		filepath.Dir(cfg.EnrichedFile),
	}
	if cfg.ArchiveOnSuccess {
		dirs = append(dirs, cfg.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
