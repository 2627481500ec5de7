// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"relief-scan/internal/audit"
	"relief-scan/internal/formatters"
)

// Formatter implements CSV output formatting: one row per finding plus one
// row per scorecard item, suitable for spreadsheets.
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "CSV output with one row per finding and scorecard item"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(result *audit.Result, options formatters.FormatterOptions) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"kind", "id", "severity", "confidence", "status", "title", "evidence", "detail"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, finding := range result.Findings {
		row := []string{
			"finding",
			finding.RuleID,
			strconv.Itoa(finding.Severity),
			strconv.FormatFloat(finding.Confidence, 'f', 2, 64),
			"",
			finding.Title,
			evidenceCell(finding.Evidence),
			finding.WhatWeSaw,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	for _, item := range result.Scorecard {
		row := []string{
			"scorecard",
			item.ID,
			"",
			"",
			string(item.Status),
			item.Label,
			evidenceCell(item.Evidence),
			item.WhatWeFound,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV: %w", err)
	}
	return buf.String(), nil
}

func evidenceCell(refs []audit.EvidenceRef) string {
	parts := make([]string, 0, len(refs))
	for _, ev := range refs {
		parts = append(parts, fmt.Sprintf("%s p.%d", ev.DocName, ev.PageNumber))
	}
	return strings.Join(parts, "; ")
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
