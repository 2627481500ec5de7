// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package letter fills the fixed borrower clarification-letter template from
// the analysis output. The request list is the deduplicated, order-preserving
// concatenation of every non-passing scorecard item's requests and every
// finding's questions.
package letter

import (
	"strconv"
	"strings"
	"time"

	"relief-scan/internal/audit"
)

// Generate renders the clarification letter. The current date appears only
// here, never in findings, so analysis output stays idempotent.
func Generate(ctx *audit.Context, result *audit.Result, now time.Time) string {
	var b strings.Builder

	b.WriteString(now.Format("January 2, 2006"))
	b.WriteString("\n\n")

	name := "the borrower"
	if ctx != nil && ctx.BorrowerName != "" {
		name = ctx.BorrowerName
	}
	b.WriteString("Re: Request for servicing records and clarification")
	if ctx != nil && ctx.LoanNumber != "" {
		b.WriteString(" — Loan No. " + ctx.LoanNumber)
	}
	b.WriteString("\n")
	if ctx != nil && ctx.PropertyAddress != "" {
		b.WriteString("Property: " + ctx.PropertyAddress + "\n")
	}
	b.WriteString("\nTo whom it may concern:\n\n")

	b.WriteString("I am writing on behalf of " + name + " regarding the servicing of the above-referenced mortgage loan ")
	b.WriteString("during and after the COVID-19 forbearance period")
	if ctx != nil && ctx.Window != nil {
		b.WriteString(" (" + ctx.Window.Start.Format("January 2, 2006") + " through " + ctx.Window.End.Format("January 2, 2006") + ")")
	}
	b.WriteString(". A review of the loan documents raised questions that the records in our possession do not answer. ")
	b.WriteString("Please provide the following records and explanations:\n\n")

	for i, req := range Requests(result) {
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(req)
		b.WriteString("\n")
	}

	b.WriteString("\nPlease treat this letter as a request for information under 12 C.F.R. § 1024.36. ")
	b.WriteString("A written response within the regulatory timeframe is requested.\n\n")
	b.WriteString("Sincerely,\n\n")
	b.WriteString(name + "\n")

	return b.String()
}

// Requests returns the deduplicated request list in first-appearance order:
// every scorecard item whose status is not EVIDENCE FOUND contributes its
// requests, then every finding contributes its questions.
func Requests(result *audit.Result) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(reqs []string) {
		for _, r := range reqs {
			key := strings.ToLower(strings.TrimSpace(r))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, r)
		}
	}

	if result == nil {
		return nil
	}
	for _, item := range result.Scorecard {
		if item.Status == audit.StatusEvidenceFound {
			continue
		}
		add(item.RequestNext)
	}
	for _, f := range result.Findings {
		add(f.Questions)
	}
	return out
}
