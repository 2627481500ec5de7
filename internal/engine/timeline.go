// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"strconv"
	"strings"

	"relief-scan/internal/audit"
	"relief-scan/internal/evidence"
	"relief-scan/internal/patterns"
	"relief-scan/internal/textutil"
)

// maxTimelineEvents caps the lite timeline entries per document.
const maxTimelineEvents = 8

// timelineEvents builds the lite loan timeline: pages that carry both a date
// and relief or delinquency language become dated events, with the largest
// money value on the page attached when one parses. Purely informational;
// no rule consumes these.
func timelineEvents(rec audit.DocumentRecord) []audit.LoanEvent {
	var events []audit.LoanEvent
	for i, text := range rec.Pages {
		if text == "" {
			continue
		}
		date := firstDate(text)
		if date == "" {
			continue
		}
		kind := pageEventType(text)
		if kind == "" {
			continue
		}
		ev := audit.LoanEvent{
			Date:       date,
			Type:       kind,
			Source:     "inferred",
			Confidence: 0.40,
			Evidence: []audit.EvidenceRef{{
				DocName:    rec.Name,
				PageNumber: i + 1,
				Quote:      textutil.NormalizeExcerpt(text, textutil.ExcerptMaxLen),
			}},
		}
		if amt, ok := largestMoney(text); ok {
			ev.Amount = &amt
		}
		events = append(events, ev)
		if len(events) == maxTimelineEvents {
			break
		}
	}
	if events == nil {
		return nil
	}
	return dedupeEvents(events)
}

func firstDate(text string) string {
	for _, p := range patterns.Dates {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func pageEventType(text string) string {
	if matched := evidence.FindHits([]string{text}, patterns.Forbearance, 1); len(matched) > 0 {
		return "relief"
	}
	if matched := evidence.FindHits([]string{text}, patterns.Delinquency, 1); len(matched) > 0 {
		return "delinquency"
	}
	return ""
}

func largestMoney(text string) (float64, bool) {
	var best float64
	found := false
	for _, m := range patterns.Money.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// dedupeEvents drops repeated (date, type) pairs, first seen wins.
func dedupeEvents(events []audit.LoanEvent) []audit.LoanEvent {
	seen := make(map[string]struct{}, len(events))
	out := events[:0]
	for _, ev := range events {
		k := ev.Date + "|" + ev.Type
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ev)
	}
	return out
}
