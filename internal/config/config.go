// Package config loads and validates the srcbundle YAML configuration.
// A missing config file yields the defaults; a malformed one is an error.
// Validate catches contradictory options before any output is produced.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"srcbundle/internal/encode"
	"srcbundle/internal/models"
)

// SearchConfig selects the folders and extensions to discover.
type SearchConfig struct {
	// RootFolders are the folders to scan, in order.
	RootFolders []string `yaml:"root_folders"`

	// Recursive enables descending into subdirectories.
	Recursive bool `yaml:"recursive"`

	// AllowedExtensions restricts discovery (dot-prefixed); empty admits all.
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// MaxDepth limits recursion depth (0 = unlimited).
	MaxDepth int `yaml:"max_depth"`
}

// ExclusionConfig drops files by name, extension, or containing folder.
type ExclusionConfig struct {
	Filenames  []string `yaml:"filenames"`
	Extensions []string `yaml:"extensions"`
	Folders    []string `yaml:"folders"`
}

// FilterConfig bounds which files are admitted and how large the bundle
// may grow.
type FilterConfig struct {
	Exclusions ExclusionConfig `yaml:"exclusions"`

	// MinSizeBytes and MaxSizeBytes bound individual file sizes. A file over
	// MaxSizeBytes is skipped, or replaced by the max-size placeholder when
	// one is configured.
	MinSizeBytes int64 `yaml:"min_size_bytes"`
	MaxSizeBytes int64 `yaml:"max_size_bytes"`

	// MaxTotalTokens is the document token budget (0 = unlimited).
	MaxTotalTokens int `yaml:"max_total_tokens"`
}

// OutputConfig shapes the rendered document.
type OutputConfig struct {
	// File is the output document path. Its extension infers the format
	// when Format is empty.
	File string `yaml:"file"`

	// Folder receives the per-pair documents in pairing mode.
	Folder string `yaml:"folder"`

	// Format names the output format: text, markdown, xml, json, or jsonl.
	Format string `yaml:"format"`

	HeaderTemplate       string `yaml:"header_template"`
	FooterTemplate       string `yaml:"footer_template"`
	GlobalHeaderTemplate string `yaml:"global_header_template"`
	GlobalFooterTemplate string `yaml:"global_footer_template"`

	// MaxSizePlaceholder replaces the header/body/footer of files over
	// MaxSizeBytes.
	MaxSizePlaceholder string `yaml:"max_size_placeholder"`

	// PairedFilenameTemplate names each pairing-mode output document.
	PairedFilenameTemplate string `yaml:"paired_filename_template"`

	TableOfContents bool `yaml:"table_of_contents"`
	IncludeTree     bool `yaml:"include_tree"`

	// AddLineNumbers prefixes each content line with "N: ".
	AddLineNumbers bool `yaml:"add_line_numbers"`

	// SortBy orders records: name (default), name-desc, size, mtime.
	SortBy string `yaml:"sort_by"`

	// TokenCounter selects the token estimator: "words" or "approx".
	TokenCounter string `yaml:"token_counter"`
}

// PairingConfig enables source/header pairing mode.
type PairingConfig struct {
	Enabled           bool     `yaml:"enabled"`
	SourceExtensions  []string `yaml:"source_extensions"`
	HeaderExtensions  []string `yaml:"header_extensions"`
	IncludeMismatched bool     `yaml:"include_mismatched"`
}

// Config is the full srcbundle configuration document.
type Config struct {
	Search   SearchConfig  `yaml:"search"`
	Filters  FilterConfig  `yaml:"filters"`
	Output   OutputConfig  `yaml:"output"`
	Pairing  PairingConfig `yaml:"pairing"`
	LogLevel string        `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Recursive: true,
		},
		Output: OutputConfig{
			File:   "combined_files.txt",
			SortBy: "name",
		},
		LogLevel: "info",
	}
}

// LoadConfig reads the YAML config at path. A missing file returns the
// defaults without error; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

var validSortOrders = map[string]bool{
	"": true, "name": true, "name-desc": true, "size": true, "mtime": true,
}

// Validate rejects contradictory settings before any work happens.
func (c *Config) Validate() error {
	format, err := c.Format()
	if err != nil {
		return err
	}

	if !validSortOrders[c.Output.SortBy] {
		return &models.ConfigError{Reason: fmt.Sprintf("unknown sort order %q", c.Output.SortBy)}
	}

	if counter := strings.ToLower(c.Output.TokenCounter); counter != "" && counter != "words" && counter != "approx" {
		return &models.ConfigError{Reason: fmt.Sprintf("unknown token counter %q", c.Output.TokenCounter)}
	}

	if c.Pairing.Enabled {
		if len(c.Pairing.SourceExtensions) == 0 && len(c.Pairing.HeaderExtensions) == 0 {
			return &models.ConfigError{Reason: "pairing mode requires source or header extensions"}
		}
		doc := models.Document{
			Format:               format,
			GlobalHeaderTemplate: c.Output.GlobalHeaderTemplate,
			GlobalFooterTemplate: c.Output.GlobalFooterTemplate,
			TableOfContents:      c.Output.TableOfContents,
			IncludeTree:          c.Output.IncludeTree,
			MaxTotalTokens:       c.Filters.MaxTotalTokens,
		}
		if err := encode.ValidatePairing(&doc); err != nil {
			return err
		}
	}

	return nil
}

// Format resolves the configured output format, inferring it from the
// output filename when unset.
func (c *Config) Format() (models.OutputFormat, error) {
	if c.Output.Format != "" {
		return models.ParseFormat(c.Output.Format)
	}
	return models.FormatForOutputPath(c.Output.File), nil
}
