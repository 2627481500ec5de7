// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"relief-scan/internal/audit"
)

// dateLayout is the wire format for the forbearance window dates.
const dateLayout = "2006-01-02"

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format   string `yaml:"format"`
		Verbose  bool   `yaml:"verbose"`
		Debug    bool   `yaml:"debug"`
		NoColor  bool   `yaml:"no_color"`
		MaxPages int    `yaml:"max_pages"`
		Workers  int    `yaml:"workers"`
	} `yaml:"defaults"`

	// Borrower holds the caller-supplied analysis context: who the borrower
	// is and the declared forbearance window. Everything is optional.
	Borrower struct {
		Name             string `yaml:"name"`
		LoanNumber       string `yaml:"loan_number"`
		PropertyAddress  string `yaml:"property_address"`
		ForbearanceStart string `yaml:"forbearance_start"` // YYYY-MM-DD
		ForbearanceEnd   string `yaml:"forbearance_end"`   // YYYY-MM-DD
	} `yaml:"borrower"`
}

// LoadConfig loads configuration from the specified file path. An empty path
// returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	config.Defaults.Format = "text"
	config.Defaults.MaxPages = 200
	config.Defaults.Workers = 1

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	candidates := []string{
		"relief-scan.yaml",
		"relief-scan.yml",
		".relief-scan.yaml",
		".relief-scan.yml",
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".relief-scan", "config.yaml")
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// AnalysisContext builds the engine context from the borrower block.
// Returns an error only for malformed or inverted window dates; a missing
// window is simply a nil Window.
func (c *Config) AnalysisContext() (*audit.Context, error) {
	ctx := &audit.Context{
		BorrowerName:    c.Borrower.Name,
		LoanNumber:      c.Borrower.LoanNumber,
		PropertyAddress: c.Borrower.PropertyAddress,
	}
	window, err := ParseWindow(c.Borrower.ForbearanceStart, c.Borrower.ForbearanceEnd)
	if err != nil {
		return nil, err
	}
	ctx.Window = window
	return ctx, nil
}

// ParseWindow parses a declared forbearance window. Both dates empty means
// no declared window (nil, nil); one empty date is an error, as is an end
// before the start.
func ParseWindow(start, end string) (*audit.Window, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("forbearance window needs both start and end dates (got start=%q end=%q)", start, end)
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid forbearance start date %q: %w", start, err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid forbearance end date %q: %w", end, err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("forbearance window end %s is before start %s", end, start)
	}
	return &audit.Window{Start: s, End: e}, nil
}

func validate(c *Config) error {
	switch c.Defaults.Format {
	case "", "text", "json", "csv", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Defaults.Format)
	}
	if c.Defaults.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative")
	}
	if c.Defaults.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	// Window dates are validated where they are parsed.
	_, err := ParseWindow(c.Borrower.ForbearanceStart, c.Borrower.ForbearanceEnd)
	return err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
