// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web is the thin presentation layer: a single-page upload form that
// posts PDFs plus borrower fields, runs one analysis, and returns the
// engine's output and the generated clarification letter. It holds no state
// between requests.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"relief-scan/internal/audit"
	"relief-scan/internal/config"
	"relief-scan/internal/engine"
	"relief-scan/internal/extract"
	"relief-scan/internal/letter"
	"relief-scan/internal/version"
)

// maxUploadBytes bounds one multipart upload (all files together).
const maxUploadBytes = 64 << 20

// Server hosts the upload/analyze endpoints.
type Server struct {
	port      string
	engine    *engine.Engine
	extractor *extract.Extractor
	server    *http.Server
}

// AnalyzeResponse wraps one analysis run for the browser.
type AnalyzeResponse struct {
	Success bool          `json:"success"`
	Result  *audit.Result `json:"result,omitempty"`
	Letter  string        `json:"letter,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// NewServer creates a web server around a shared engine and extractor.
func NewServer(port string, eng *engine.Engine, extractor *extract.Extractor) *Server {
	return &Server{port: port, engine: eng, extractor: extractor}
}

// Start binds the first available port at or above the configured one and
// serves until Stop.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/analyze", s.handleAnalyze)

	var lastError error
	for i := 0; i < 10; i++ {
		currentPort := s.port
		if i > 0 {
			currentPort = fmt.Sprintf("%d", basePort(s.port)+i)
		}

		listener, err := net.Listen("tcp", ":"+currentPort)
		if err != nil {
			lastError = err
			continue
		}

		s.server = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       2 * time.Minute,
			WriteTimeout:      2 * time.Minute,
		}
		fmt.Printf("relief-scan web UI listening on http://localhost:%s\n", currentPort)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			lastError = err
			continue
		}
		return nil
	}
	return fmt.Errorf("could not find an available port starting at %s: %w", s.port, lastError)
}

// Stop stops the web server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

func basePort(p string) int {
	var n int
	if _, err := fmt.Sscanf(p, "%d", &n); err != nil || n <= 0 {
		return 8080
	}
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": version.Short(),
	})
}

// handleAnalyze accepts a multipart POST: one or more "documents" PDF files
// plus optional borrower fields, and returns the full analysis and letter.
// Uploads are written to a per-request temp dir and removed afterwards;
// nothing persists between requests.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}

	files := r.MultipartForm.File["documents"]
	if len(files) == 0 {
		// Rejecting an empty upload is this layer's concern; the engine
		// itself would just no-op.
		writeAnalyzeError(w, http.StatusBadRequest, fmt.Errorf("upload at least one PDF document"))
		return
	}

	window, err := config.ParseWindow(r.FormValue("forbearance_start"), r.FormValue("forbearance_end"))
	if err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, err)
		return
	}
	ctx := &audit.Context{
		BorrowerName:    r.FormValue("borrower_name"),
		LoanNumber:      r.FormValue("loan_number"),
		PropertyAddress: r.FormValue("property_address"),
		Window:          window,
	}

	tmpDir, err := os.MkdirTemp("", "relief-scan-upload-")
	if err != nil {
		writeAnalyzeError(w, http.StatusInternalServerError, fmt.Errorf("temp dir: %w", err))
		return
	}
	defer os.RemoveAll(tmpDir)

	var docs []engine.NamedDocument
	for i, fh := range files {
		path := filepath.Join(tmpDir, fmt.Sprintf("doc-%d.pdf", i))
		if err := saveUpload(fh, path); err != nil {
			writeAnalyzeError(w, http.StatusBadRequest, fmt.Errorf("saving %s: %w", fh.Filename, err))
			return
		}
		pages, err := s.extractor.Pages(path)
		if err != nil {
			// Extraction failure on one document is an absence of evidence,
			// not a fatal error; keep the document with no pages.
			pages = nil
		}
		docs = append(docs, engine.NamedDocument{Name: fh.Filename, Pages: pages})
	}

	result, err := s.engine.Run(docs, ctx)
	if err != nil {
		writeAnalyzeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalyzeResponse{
		Success: true,
		Result:  result,
		Letter:  letter.Generate(ctx, result, time.Now()),
	})
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

func writeAnalyzeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(AnalyzeResponse{Success: false, Error: err.Error()})
}

// serveHome serves the single-page upload form.
func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, homePage)
}

const homePage = `<!DOCTYPE html>
<html>
<head><title>relief-scan</title></head>
<body>
<h1>relief-scan — COVID Forbearance Document Checker</h1>
<p>Upload mortgage servicing PDFs. Heuristic red flags only; not legal advice.</p>
<form action="/analyze" method="post" enctype="multipart/form-data">
  <p><input type="file" name="documents" accept="application/pdf" multiple required></p>
  <p>Borrower name: <input type="text" name="borrower_name"></p>
  <p>Loan number: <input type="text" name="loan_number"></p>
  <p>Property address: <input type="text" name="property_address"></p>
  <p>Forbearance start (YYYY-MM-DD): <input type="text" name="forbearance_start"></p>
  <p>Forbearance end (YYYY-MM-DD): <input type="text" name="forbearance_end"></p>
  <p><button type="submit">Analyze</button></p>
</form>
</body>
</html>
`
