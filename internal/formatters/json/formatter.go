// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"relief-scan/internal/audit"
	"relief-scan/internal/formatters"
	"relief-scan/internal/report"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// response is the JSON document shape. Grouped output replaces the flat
// findings list when requested.
type response struct {
	DocumentSummaries []audit.DocumentSummary `json:"doc_summaries"`
	Findings          []audit.Finding         `json:"findings,omitempty"`
	Grouped           []report.GroupedFinding `json:"grouped_findings,omitempty"`
	Scorecard         []audit.ScoreItem       `json:"scorecard"`
	Timeline          []audit.LoanEvent       `json:"timeline,omitempty"`
}

func (f *Formatter) Format(result *audit.Result, options formatters.FormatterOptions) (string, error) {
	resp := response{
		DocumentSummaries: result.DocumentSummaries,
		Scorecard:         result.Scorecard,
		Timeline:          result.Timeline,
	}
	if options.Grouped {
		resp.Grouped = report.Group(result.Findings)
	} else {
		resp.Findings = result.Findings
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
