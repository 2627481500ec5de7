// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"relief-scan/internal/audit"
	"relief-scan/internal/config"
	"relief-scan/internal/engine"
	"relief-scan/internal/extract"
	"relief-scan/internal/formatters"
	"relief-scan/internal/letter"
	"relief-scan/internal/observability"
	"relief-scan/internal/suppressions"
	"relief-scan/internal/version"
	"relief-scan/internal/web"

	_ "relief-scan/internal/formatters/csv"
	_ "relief-scan/internal/formatters/json"
	_ "relief-scan/internal/formatters/text"
	_ "relief-scan/internal/formatters/yaml"
)

// configFlags holds command line flag values
type configFlags struct {
	configFile       string
	outputFormat     string
	outputFile       string
	letterFile       string
	borrowerName     string
	loanNumber       string
	propertyAddress  string
	forbearanceStart string
	forbearanceEnd   string
	suppressionsFile string
	maxPages         int
	workers          int
	verbose          bool
	debug            bool
	noColor          bool
	grouped          bool
	showVersion      bool
	webMode          bool
	webPort          string
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg := loadConfiguration(flags.configFile)
	final := resolveConfiguration(cfg, flags)

	observer := buildObserver(final.debug)
	extractor := extract.NewExtractor(observer)
	extractor.MaxPages = final.maxPages
	eng := engine.New(observer)
	eng.Workers = final.workers

	if flags.webMode {
		server := web.NewServer(flags.webPort, eng, extractor)
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: provide at least one PDF document to analyze")
		flag.Usage()
		os.Exit(2)
	}

	ctx, err := buildContext(cfg, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	docs := make([]engine.NamedDocument, 0, len(paths))
	for _, path := range paths {
		pages, err := extractor.Pages(path)
		if err != nil {
			// A document that yields no readable text contributes no
			// evidence; the rest of the batch still runs.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			pages = nil
		}
		docs = append(docs, engine.NamedDocument{Name: baseName(path), Pages: pages})
	}

	result, err := eng.Run(docs, ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: analysis failed: %v\n", err)
		os.Exit(1)
	}

	if flags.suppressionsFile != "" {
		manager := suppressions.NewManager(flags.suppressionsFile)
		kept, suppressed := manager.Apply(result.Findings)
		result.Findings = kept
		if len(suppressed) > 0 {
			fmt.Fprintf(os.Stderr, "%d finding(s) suppressed by %s\n", len(suppressed), flags.suppressionsFile)
		}
	}

	output, err := formatters.Export(final.format, result, formatters.FormatterOptions{
		Verbose: final.verbose,
		NoColor: final.noColor,
		Grouped: flags.grouped,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutput(flags.outputFile, output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flags.letterFile != "" {
		text := letter.Generate(ctx, result, time.Now())
		if err := os.WriteFile(flags.letterFile, []byte(text), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing letter: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Clarification letter written to %s\n", flags.letterFile)
	}
}

func parseFlags() *configFlags {
	flags := &configFlags{}
	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file")
	flag.StringVar(&flags.outputFormat, "format", "", "Output format (text, json, csv, yaml)")
	flag.StringVar(&flags.outputFile, "output", "", "Write output to file instead of stdout")
	flag.StringVar(&flags.letterFile, "letter", "", "Write the clarification letter to this file")
	flag.StringVar(&flags.borrowerName, "borrower", "", "Borrower name for context and letter")
	flag.StringVar(&flags.loanNumber, "loan", "", "Loan number for context and letter")
	flag.StringVar(&flags.propertyAddress, "address", "", "Property address for context and letter")
	flag.StringVar(&flags.forbearanceStart, "window-start", "", "Declared forbearance start date (YYYY-MM-DD)")
	flag.StringVar(&flags.forbearanceEnd, "window-end", "", "Declared forbearance end date (YYYY-MM-DD)")
	flag.StringVar(&flags.suppressionsFile, "suppressions", "", "Path to a suppression rules file")
	flag.IntVar(&flags.maxPages, "max-pages", 0, "Maximum pages to extract per document")
	flag.IntVar(&flags.workers, "workers", 0, "Parallel document workers (1 = sequential)")
	flag.BoolVar(&flags.verbose, "verbose", false, "Show detailed output")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug output")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.grouped, "grouped", false, "Group findings by rule id")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")
	flag.BoolVar(&flags.webMode, "web", false, "Start the web UI instead of scanning")
	flag.StringVar(&flags.webPort, "port", "8080", "Web UI port")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: relief-scan [options] document.pdf [more.pdf ...]\n\n")
		fmt.Fprintf(os.Stderr, "Scans mortgage servicing PDFs for COVID forbearance mishandling indicators.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return flags
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format   string
	verbose  bool
	debug    bool
	noColor  bool
	maxPages int
	workers  int
}

// resolveConfiguration resolves final values: flags win over the config
// file, which wins over defaults.
func resolveConfiguration(cfg *config.Config, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{
		format:   cfg.Defaults.Format,
		verbose:  cfg.Defaults.Verbose,
		debug:    cfg.Defaults.Debug,
		noColor:  cfg.Defaults.NoColor,
		maxPages: cfg.Defaults.MaxPages,
		workers:  cfg.Defaults.Workers,
	}
	if final.format == "" {
		final.format = "text"
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}
	if isFlagSet("max-pages") && flags.maxPages > 0 {
		final.maxPages = flags.maxPages
	}
	if isFlagSet("workers") && flags.workers > 0 {
		final.workers = flags.workers
	}

	// Writing to a pipe or file gets no ANSI color regardless of flags.
	if !isTerminal(os.Stdout) {
		final.noColor = true
	}
	return final
}

// buildContext merges borrower fields from the config file and flags; flags
// win field by field.
func buildContext(cfg *config.Config, flags *configFlags) (*audit.Context, error) {
	ctx, err := cfg.AnalysisContext()
	if err != nil {
		return nil, err
	}
	if flags.borrowerName != "" {
		ctx.BorrowerName = flags.borrowerName
	}
	if flags.loanNumber != "" {
		ctx.LoanNumber = flags.loanNumber
	}
	if flags.propertyAddress != "" {
		ctx.PropertyAddress = flags.propertyAddress
	}
	if flags.forbearanceStart != "" || flags.forbearanceEnd != "" {
		window, err := config.ParseWindow(flags.forbearanceStart, flags.forbearanceEnd)
		if err != nil {
			return nil, err
		}
		ctx.Window = window
	}
	return ctx, nil
}

func buildObserver(debug bool) *observability.StandardObserver {
	observer := observability.NewStandardObserver(observability.LevelMetrics, os.Stderr)
	if debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		observer = debugObs.StandardObserver
		observer.DebugObserver = debugObs
	}
	return observer
}

func writeOutput(path, output string) error {
	if path == "" {
		fmt.Println(output)
		return nil
	}
	if err := os.WriteFile(path, []byte(output), 0o600); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}

func baseName(path string) string {
	return filepath.Base(path)
}

// isFlagSet checks whether a flag was explicitly provided
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
