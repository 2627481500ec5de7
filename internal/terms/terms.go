// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package terms extracts numeric loan terms (rate, P&I, escrow, total
// payment) from document text by labeled-proximity regex search, and infers
// pre-modification baseline and post-modification term sets across a
// document batch.
package terms

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"relief-scan/internal/audit"
	"relief-scan/internal/evidence"
	"relief-scan/internal/patterns"
)

// maxAnchorEvidence bounds the anchor evidence collected per document.
const maxAnchorEvidence = 3

// Extract pulls loan terms out of a document. The regex scope is the whole
// concatenated document text, not individual pages. Each of the four fields
// is extracted independently; any field without a match stays nil, and a
// value that fails to parse counts as no match.
func Extract(pages []string) audit.InferredTerms {
	text := strings.Join(pages, "\n")
	return audit.InferredTerms{
		Rate:                 extractRate(text),
		PrincipalAndInterest: extractAmount(text, patterns.PILabeled),
		Escrow:               extractAmount(text, patterns.EscrowLabeled),
		TotalPayment:         extractAmount(text, patterns.TotalLabeled),
	}
}

// extractRate prefers a rate labeled "interest rate" or "note rate" within
// 60 characters; with no labeled match it falls back to the first bare
// percent-suffixed rate anywhere in the text.
func extractRate(text string) *float64 {
	if m := patterns.RateLabeled.FindStringSubmatch(text); m != nil {
		if v, ok := parseRate(m[1]); ok {
			return &v
		}
	}
	if m := patterns.Rate.FindStringSubmatch(text); m != nil {
		if v, ok := parseRate(m[1]); ok {
			return &v
		}
	}
	return nil
}

func extractAmount(text string, labeled *regexp.Regexp) *float64 {
	m := labeled.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, ok := parseMoney(m[1])
	if !ok {
		return nil
	}
	return &v
}

// parseRate parses a percentage, rounded to two decimal places.
func parseRate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}

// parseMoney parses a currency value with thousands separators stripped.
func parseMoney(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// baselineOrder is the category priority for baseline inference.
// MODIFICATION documents describe the new terms, not the prior ones, and are
// excluded.
var baselineOrder = []audit.DocType{
	audit.DocTypeBilling,
	audit.DocTypePaymentHistory,
	audit.DocTypeEscrow,
	audit.DocTypeOther,
}

// InferBaseline infers the pre-modification baseline: documents are visited
// in category priority order (upload order within a category), each
// contributing term-anchor evidence and any fields still unset. Stops early
// once rate, P&I, and total are all populated. The returned baseline may be
// partial; the evidence list is deduplicated.
func InferBaseline(docs []audit.DocumentRecord) (audit.InferredTerms, []audit.EvidenceRef) {
	var base audit.InferredTerms
	var refs []audit.EvidenceRef

	for _, cat := range baselineOrder {
		for _, doc := range docs {
			if doc.Type != cat {
				continue
			}
			hits := evidence.FindHits(doc.Pages, patterns.TermAnchors, maxAnchorEvidence)
			refs = append(refs, evidence.FromHits(doc.Name, hits)...)
			base.Merge(Extract(doc.Pages))
			if base.Complete() {
				return base, evidence.Dedupe(refs)
			}
		}
	}
	return base, evidence.Dedupe(refs)
}

// InferModification infers post-modification terms from MODIFICATION
// documents only, in upload order, with the same first-found-wins merge and
// early stop. Capitalization/arrears evidence is collected as a distinct
// bucket so the outcome comparison can demand transparency independent of
// the numeric result.
func InferModification(docs []audit.DocumentRecord) (audit.InferredTerms, []audit.EvidenceRef, []audit.EvidenceRef) {
	var newTerms audit.InferredTerms
	var termRefs, capRefs []audit.EvidenceRef

	for _, doc := range docs {
		if doc.Type != audit.DocTypeModification {
			continue
		}
		termHits := evidence.FindHits(doc.Pages, patterns.TermAnchors, maxAnchorEvidence)
		termRefs = append(termRefs, evidence.FromHits(doc.Name, termHits)...)

		capHits := evidence.FindHits(doc.Pages, patterns.Capitalization, maxAnchorEvidence)
		capRefs = append(capRefs, evidence.FromHits(doc.Name, capHits)...)

		newTerms.Merge(Extract(doc.Pages))
		if newTerms.Complete() {
			break
		}
	}
	return newTerms, evidence.Dedupe(termRefs), evidence.Dedupe(capRefs)
}
