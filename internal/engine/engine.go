// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package engine runs the full analysis over an ordered document batch:
// classification, rule evaluation, baseline/modification term inference, the
// scorecard, and ranking. It is the single entry point shared by the CLI and
// the web server.
package engine

import (
	"fmt"
	"sync"

	"relief-scan/internal/audit"
	"relief-scan/internal/classifier"
	"relief-scan/internal/evidence"
	"relief-scan/internal/observability"
	"relief-scan/internal/patterns"
	"relief-scan/internal/report"
	"relief-scan/internal/rules"
	"relief-scan/internal/terms"
)

// maxSummaryHits caps the keyword hits recorded per document summary.
const maxSummaryHits = 10

// NamedDocument is one uploaded document after text extraction: the name and
// its ordered page text. Pages may be empty strings.
type NamedDocument struct {
	Name  string
	Pages []string
}

// Engine evaluates documents. Zero value is usable; Workers > 1 enables
// document-level fan-out (documents are independent pure functions of their
// own text, so this only changes throughput, never output: results are
// merged back into document order before ranking).
type Engine struct {
	Workers  int
	Observer *observability.StandardObserver
}

// New returns an engine with the given observer.
func New(observer *observability.StandardObserver) *Engine {
	return &Engine{Observer: observer}
}

// Run analyzes the batch. An empty batch is a no-op returning an empty
// result; rejecting it is the caller's concern. A rule panicking on one
// document is isolated: it is logged and skipped and every other rule and
// document still contributes.
func (e *Engine) Run(docs []NamedDocument, ctx *audit.Context) (*audit.Result, error) {
	var finish func(bool, map[string]interface{})
	if e.Observer != nil {
		finish = e.Observer.StartTiming("engine", "run_analysis", "")
	}

	records := make([]audit.DocumentRecord, len(docs))
	perDoc := make([]docResult, len(docs))

	process := func(i int) {
		rec := audit.DocumentRecord{
			Name:  docs[i].Name,
			Type:  classifier.Classify(docs[i].Pages),
			Pages: docs[i].Pages,
		}
		records[i] = rec
		perDoc[i] = e.processDocument(rec, ctx)
	}

	if e.Workers > 1 && len(docs) > 1 {
		e.fanOut(len(docs), process)
	} else {
		for i := range docs {
			process(i)
		}
	}

	result := &audit.Result{}
	var findings []audit.Finding
	for i := range perDoc {
		result.DocumentSummaries = append(result.DocumentSummaries, perDoc[i].summary)
		result.Timeline = append(result.Timeline, perDoc[i].events...)
		findings = append(findings, perDoc[i].findings...)
	}

	baseline, baseEv := terms.InferBaseline(records)
	newTerms, termEv, capEv := terms.InferModification(records)

	result.Scorecard = rules.BuildScorecard(rules.ScorecardInput{
		Docs:     records,
		Context:  ctx,
		Baseline: baseline,
		NewTerms: newTerms,
		TermEv:   evidence.Dedupe(append(append([]audit.EvidenceRef{}, baseEv...), termEv...)),
		CapEv:    capEv,
	})
	result.Findings = report.Rank(findings)

	if finish != nil {
		finish(true, map[string]interface{}{
			"documents": len(docs),
			"findings":  len(result.Findings),
		})
	}
	return result, nil
}

type docResult struct {
	summary  audit.DocumentSummary
	findings []audit.Finding
	events   []audit.LoanEvent
}

// processDocument runs every rule against one document and builds its
// summary and lite timeline.
func (e *Engine) processDocument(rec audit.DocumentRecord, ctx *audit.Context) docResult {
	res := docResult{
		summary: audit.DocumentSummary{
			Name:        rec.Name,
			Type:        rec.Type,
			PageCount:   len(rec.Pages),
			KeywordHits: summaryHits(rec.Pages),
		},
		events: timelineEvents(rec),
	}

	for _, rule := range rules.Registry() {
		if f := e.evalRule(rule, rec, ctx); f != nil {
			res.findings = append(res.findings, *f)
		}
	}
	return res
}

// evalRule isolates a panicking rule so the rest of the run survives.
// Partial results beat total failure here.
func (e *Engine) evalRule(rule rules.Rule, rec audit.DocumentRecord, ctx *audit.Context) (f *audit.Finding) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			if e.Observer != nil {
				e.Observer.LogOperation(observability.OperationData{
					Component: "engine",
					Operation: "rule_" + rule.ID,
					FilePath:  rec.Name,
					Success:   false,
					Error:     fmt.Sprintf("rule panicked: %v", r),
				})
			}
		}
	}()
	return rule.Eval(rec, ctx)
}

// fanOut runs process(i) for i in [0, n) on up to Workers goroutines.
func (e *Engine) fanOut(n int, process func(int)) {
	workers := e.Workers
	if workers > n {
		workers = n
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				process(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// summaryHits records where the summary keyword list lands in a document,
// capped for display.
func summaryHits(pages []string) []audit.PageHit {
	return evidence.FindHits(pages, patterns.SummaryKeywordRegexps(), maxSummaryHits)
}
