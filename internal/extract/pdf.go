// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract turns a PDF file into the ordered per-page text sequence
// the engine consumes. Selectable text comes from ledongthuc/pdf; pdfcpu
// validates the file up front. Pages with no selectable text stay empty
// strings unless a Recognizer is injected.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"relief-scan/internal/observability"
)

// DefaultMaxPages bounds extraction time on very large PDFs.
const DefaultMaxPages = 200

// minSelectableChars is the total selectable-text length below which a
// document is treated as scanned and handed to the Recognizer.
const minSelectableChars = 64

// Recognizer is the injected OCR capability: document bytes in, recognized
// text out. The engine and its tests never depend on a live OCR service; a
// test double returns canned text. A nil Recognizer disables the fallback.
type Recognizer interface {
	Recognize(data []byte) (string, error)
}

// Extractor extracts per-page text from PDF files.
type Extractor struct {
	MaxPages   int
	Recognizer Recognizer
	Observer   *observability.StandardObserver
	pdfConfig  *model.Configuration
}

// NewExtractor creates an extractor with the default page cap.
func NewExtractor(observer *observability.StandardObserver) *Extractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Extractor{
		MaxPages:  DefaultMaxPages,
		Observer:  observer,
		pdfConfig: conf,
	}
}

// Pages returns the ordered page-text sequence for the PDF at path. A page
// that yields no text is returned as an empty string, never dropped, so page
// numbers stay 1-indexed and stable. When the whole document yields almost
// no selectable text and a Recognizer is configured, the recognizer output
// is returned as a single page.
func (e *Extractor) Pages(path string) ([]string, error) {
	var finish func(bool, map[string]interface{})
	if e.Observer != nil {
		finish = e.Observer.StartTiming("extract", "pdf_pages", path)
	}

	pages, err := e.selectablePages(path)
	if err != nil {
		if finish != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, err
	}

	if e.Recognizer != nil && totalLen(pages) < minSelectableChars {
		// Likely a scanned document. The recognizer sees the whole file,
		// mirroring how out-of-process OCR services consume documents.
		data, rerr := os.ReadFile(path)
		if rerr == nil {
			if text, oerr := e.Recognizer.Recognize(data); oerr == nil && strings.TrimSpace(text) != "" {
				pages = []string{text}
			}
		}
	}

	if finish != nil {
		finish(true, map[string]interface{}{"pages": len(pages)})
	}
	return pages, nil
}

// selectablePages runs the per-page selectable-text extraction.
func (e *Extractor) selectablePages(path string) ([]string, error) {
	// Validate the PDF structure first; a corrupt file fails fast with a
	// clearer error than a mid-extraction panic.
	if err := api.ValidateFile(path, e.pdfConfig); err != nil {
		return nil, fmt.Errorf("invalid PDF %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	maxPages := e.MaxPages
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}
	if pageCount > maxPages {
		pageCount = maxPages
	}

	pages := make([]string, pageCount)
	for i := 1; i <= pageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			// A single unreadable page must not sink the document.
			continue
		}
		pages[i-1] = strings.TrimSpace(text)
	}
	return pages, nil
}

// pageText extracts one page using row-based positioning for better spacing,
// falling back to plain text extraction.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}
	// Lower Y first gives top-to-bottom reading order.
	sort.Slice(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) < averageY(sortedRows[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := rowString(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, el := range elements {
		total += el.Y
	}
	return total / float64(len(elements))
}

// rowString joins a row's text elements left to right, inserting a space
// where the horizontal gap exceeds 20% of the font size.
func rowString(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}
	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, el := range sorted {
		buf.WriteString(el.S)
		if i == len(sorted)-1 {
			continue
		}
		gap := sorted[i+1].X - (el.X + el.W)
		fontSize := el.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

func totalLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
