// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"relief-scan/internal/audit"
	"relief-scan/internal/formatters"
	"relief-scan/internal/report"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *audit.Result, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var b strings.Builder

	f.appendScorecard(&b, result.Scorecard, options)

	b.WriteString("\n")
	header := "RED FLAGS (RANKED)"
	if !options.NoColor {
		header = f.colors["white"].Sprint(header)
	}
	b.WriteString(header + "\n")
	if len(result.Findings) == 0 {
		b.WriteString("No high-signal flags found with the current heuristics. (This does not mean nothing happened.)\n")
	} else if options.Grouped {
		for _, g := range report.Group(result.Findings) {
			f.appendGrouped(&b, g, options)
		}
	} else {
		for _, finding := range result.Findings {
			f.appendFinding(&b, finding, options)
		}
	}

	if options.Verbose {
		f.appendSummaries(&b, result.DocumentSummaries)
		f.appendTimeline(&b, result.Timeline)
	}

	return b.String(), nil
}

func (f *Formatter) statusColor(status audit.Status) *color.Color {
	switch status {
	case audit.StatusConflict:
		return f.colors["red"]
	case audit.StatusNeedsClarification:
		return f.colors["yellow"]
	case audit.StatusEvidenceFound:
		return f.colors["green"]
	default:
		return f.colors["cyan"]
	}
}

func (f *Formatter) appendScorecard(b *strings.Builder, items []audit.ScoreItem, options formatters.FormatterOptions) {
	header := "SCORECARD"
	if !options.NoColor {
		header = f.colors["white"].Sprint(header)
	}
	b.WriteString(header + "\n")
	for _, item := range items {
		status := fmt.Sprintf("[%-19s]", item.Status)
		if !options.NoColor {
			status = f.statusColor(item.Status).Sprintf("[%-19s]", item.Status)
		}
		fmt.Fprintf(b, "%s %-4s %s\n", status, item.ID, item.Label)
		if options.Verbose {
			fmt.Fprintf(b, "      %s\n", item.WhatWeFound)
			for _, ev := range item.Evidence {
				fmt.Fprintf(b, "      - %s, page %d: %q\n", ev.DocName, ev.PageNumber, ev.Quote)
			}
			for _, req := range item.RequestNext {
				fmt.Fprintf(b, "      ask: %s\n", req)
			}
		}
	}
}

func (f *Formatter) appendFinding(b *strings.Builder, finding audit.Finding, options formatters.FormatterOptions) {
	head := fmt.Sprintf("[%s] %s — Severity %d/5 • Confidence %d%%",
		finding.RuleID, finding.Title, finding.Severity, int(finding.Confidence*100))
	if !options.NoColor {
		switch {
		case finding.Severity >= 4:
			head = f.colors["red"].Sprint(head)
		case finding.Severity == 3:
			head = f.colors["yellow"].Sprint(head)
		default:
			head = f.colors["green"].Sprint(head)
		}
	}
	b.WriteString(head + "\n")

	if !options.Verbose {
		return
	}
	fmt.Fprintf(b, "  What we saw: %s\n", finding.WhatWeSaw)
	fmt.Fprintf(b, "  Why it matters: %s\n", finding.WhyItMatters)
	if finding.PolicyContext != "" {
		fmt.Fprintf(b, "  Policy context: %s\n", finding.PolicyContext)
	}
	b.WriteString("  Evidence:\n")
	for _, ev := range finding.Evidence {
		fmt.Fprintf(b, "  - %s, page %d: %q\n", ev.DocName, ev.PageNumber, ev.Quote)
	}
	b.WriteString("  What to ask next:\n")
	for _, q := range finding.Questions {
		fmt.Fprintf(b, "  - %s\n", q)
	}
}

func (f *Formatter) appendGrouped(b *strings.Builder, g report.GroupedFinding, options formatters.FormatterOptions) {
	head := fmt.Sprintf("[%s] %s — Severity %d/5 • Confidence %d%% • %d document(s)",
		g.RuleID, g.Title, g.Severity, int(g.Confidence*100), g.SourcesCount)
	if !options.NoColor && g.Severity >= 4 {
		head = f.colors["red"].Sprint(head)
	}
	b.WriteString(head + "\n")
	if options.Verbose {
		for _, ev := range g.Evidence {
			fmt.Fprintf(b, "  - %s, page %d: %q\n", ev.DocName, ev.PageNumber, ev.Quote)
		}
	}
}

func (f *Formatter) appendSummaries(b *strings.Builder, summaries []audit.DocumentSummary) {
	b.WriteString("\nDOCUMENTS\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "%s — %s, %d pages\n", s.Name, s.Type, s.PageCount)
		for _, h := range s.KeywordHits {
			fmt.Fprintf(b, "  page %d: %q\n", h.Page, h.Excerpt)
		}
	}
}

func (f *Formatter) appendTimeline(b *strings.Builder, events []audit.LoanEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("\nTIMELINE (LITE)\n")
	for _, ev := range events {
		line := fmt.Sprintf("%s — %s", ev.Date, ev.Type)
		if ev.Amount != nil {
			line += fmt.Sprintf(" ($%.2f)", *ev.Amount)
		}
		b.WriteString(line + "\n")
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
