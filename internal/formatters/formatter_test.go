// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"strings"
	"testing"

	"relief-scan/internal/audit"
)

type stubFormatter struct {
	name string
}

func (s stubFormatter) Format(result *audit.Result, options FormatterOptions) (string, error) {
	return "stub output", nil
}
func (s stubFormatter) Name() string          { return s.name }
func (s stubFormatter) Description() string   { return "stub" }
func (s stubFormatter) FileExtension() string { return ".stub" }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubFormatter{name: "stub"})

	if _, ok := r.Get("stub"); !ok {
		t.Error("registered formatter should be retrievable")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("unregistered name must not resolve")
	}
	if names := r.List(); len(names) != 1 || names[0] != "stub" {
		t.Errorf("unexpected list: %v", names)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export("definitely-not-registered", &audit.Result{}, FormatterOptions{})
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetFormatInfo_Unknown(t *testing.T) {
	if info := GetFormatInfo("missing"); info.Name != "" {
		t.Errorf("expected zero-value info, got %+v", info)
	}
}
