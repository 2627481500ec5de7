// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"strconv"
	"strings"
	"time"
)

// DocType is the fixed document taxonomy assigned by the classifier.
type DocType string

const (
	DocTypeModification   DocType = "MODIFICATION"
	DocTypePaymentHistory DocType = "PAYMENT_HISTORY"
	DocTypeEscrow         DocType = "ESCROW"
	DocTypeBilling        DocType = "BILLING"
	DocTypeOther          DocType = "OTHER"
)

// Status is the canonical scorecard status taxonomy.
type Status string

const (
	StatusEvidenceFound      Status = "EVIDENCE FOUND"
	StatusMissing            Status = "MISSING"
	StatusConflict           Status = "CONFLICT"
	StatusNeedsClarification Status = "NEEDS CLARIFICATION"
)

// CARESEffectiveDate is the CARES Act forbearance effective date used by the
// timing-sensitive rules.
var CARESEffectiveDate = time.Date(2020, time.March, 27, 0, 0, 0, 0, time.UTC)

// EvidenceRef points at a place in a source document backing a finding.
// Immutable once created; safe to share between findings.
type EvidenceRef struct {
	DocName      string `json:"doc_name"`
	PageNumber   int    `json:"page_number"` // 1-indexed
	Quote        string `json:"quote"`
	SearchPhrase string `json:"search_phrase,omitempty"`
}

// Key returns the identity used for evidence deduplication: the search phrase
// when present, otherwise a prefix of the quote.
func (e EvidenceRef) Key() string {
	disc := e.SearchPhrase
	if disc == "" {
		disc = e.Quote
		if len(disc) > 40 {
			disc = disc[:40]
		}
	}
	return strings.Join([]string{e.DocName, strconv.Itoa(e.PageNumber), disc}, "|")
}

// Finding is one flagged pattern instance emitted by a rule.
// A rule that found nothing returns no Finding, never an empty one.
type Finding struct {
	RuleID        string        `json:"rule_id"`
	Severity      int           `json:"severity"`   // 1-5
	Confidence    float64       `json:"confidence"` // 0.0-1.0
	Title         string        `json:"title"`
	WhatWeSaw     string        `json:"what_we_saw"`
	WhyItMatters  string        `json:"why_it_matters"`
	Evidence      []EvidenceRef `json:"evidence"`
	Questions     []string      `json:"questions"`
	PolicyContext string        `json:"policy_context,omitempty"`
}

// ScoreItem is one scorecard check result. Exactly one per check id per run.
type ScoreItem struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	Status        Status        `json:"status"`
	WhatWeFound   string        `json:"what_we_found"`
	WhyItMatters  string        `json:"why_it_matters"`
	PolicyContext string        `json:"policy_context,omitempty"`
	Evidence      []EvidenceRef `json:"evidence,omitempty"`
	RequestNext   []string      `json:"request_next,omitempty"`
}

// InferredTerms holds numeric loan terms extracted from document text.
// All fields are independently optional; partial extraction is expected.
type InferredTerms struct {
	Rate                 *float64 `json:"rate,omitempty"`                   // percent
	PrincipalAndInterest *float64 `json:"principal_and_interest,omitempty"` // currency
	Escrow               *float64 `json:"escrow,omitempty"`                 // currency
	TotalPayment         *float64 `json:"total_payment,omitempty"`          // currency
}

// Empty reports whether no field was extracted.
func (t InferredTerms) Empty() bool {
	return t.Rate == nil && t.PrincipalAndInterest == nil && t.Escrow == nil && t.TotalPayment == nil
}

// Complete reports whether the fields the inference loops stop early on
// (rate, P&I, total) are all populated.
func (t InferredTerms) Complete() bool {
	return t.Rate != nil && t.PrincipalAndInterest != nil && t.TotalPayment != nil
}

// Merge fills fields of t that are still unset from other. The first-found
// value for each field wins; later documents never override it.
func (t *InferredTerms) Merge(other InferredTerms) {
	if t.Rate == nil {
		t.Rate = other.Rate
	}
	if t.PrincipalAndInterest == nil {
		t.PrincipalAndInterest = other.PrincipalAndInterest
	}
	if t.Escrow == nil {
		t.Escrow = other.Escrow
	}
	if t.TotalPayment == nil {
		t.TotalPayment = other.TotalPayment
	}
}

// DocumentRecord is one uploaded document after text extraction and
// classification. Read-only after creation.
type DocumentRecord struct {
	Name  string   `json:"name"`
	Type  DocType  `json:"document_type"`
	Pages []string `json:"-"`
}

// Window is a borrower-declared forbearance date window.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EndsOnOrAfterCARES reports whether the declared window ended on or after
// the CARES Act effective date.
func (w Window) EndsOnOrAfterCARES() bool {
	return !w.End.Before(CARESEffectiveDate)
}

// Context carries caller-supplied borrower information. Every field is
// optional; rules that need a field treat its absence as "not declared".
type Context struct {
	BorrowerName    string
	LoanNumber      string
	PropertyAddress string
	Window          *Window
}

// PageHit is one matching page with a normalized excerpt, as produced by the
// evidence locator and surfaced in per-document summaries.
type PageHit struct {
	Page    int    `json:"page"`
	Excerpt string `json:"excerpt"`
}

// LoanEvent is a lite timeline entry: a dated money mention near relief or
// delinquency language. Informational only; no rule consumes these.
type LoanEvent struct {
	Date       string        `json:"date,omitempty"`
	Type       string        `json:"type"`
	Amount     *float64      `json:"amount,omitempty"`
	Source     string        `json:"source"` // borrower | servicer | inferred
	Confidence float64       `json:"confidence"`
	Evidence   []EvidenceRef `json:"evidence,omitempty"`
}

// DocumentSummary describes one analyzed document for the presentation layer.
type DocumentSummary struct {
	Name        string    `json:"doc_name"`
	Type        DocType   `json:"document_type"`
	PageCount   int       `json:"pages"`
	KeywordHits []PageHit `json:"keyword_hits,omitempty"`
}

// Result is the output of one analysis run. Rebuilt from scratch every run;
// nothing is persisted.
type Result struct {
	DocumentSummaries []DocumentSummary `json:"doc_summaries"`
	Findings          []Finding         `json:"findings"`
	Scorecard         []ScoreItem       `json:"scorecard"`
	Timeline          []LoanEvent       `json:"timeline,omitempty"`
}
