// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suppressions filters previously reviewed findings out of the
// ranked output. A suppression is keyed by a hash of the finding's identity
// (rule id, document, first evidence location) so it survives re-analysis of
// the same documents without hiding new findings.
package suppressions

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"relief-scan/internal/audit"
)

// Rule represents a single suppression rule
type Rule struct {
	ID        string     `yaml:"id"`
	Hash      string     `yaml:"hash"`
	Reason    string     `yaml:"reason"`
	Enabled   bool       `yaml:"enabled"`
	CreatedBy string     `yaml:"created_by,omitempty"`
	CreatedAt time.Time  `yaml:"created_at"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

// File is the on-disk suppression list
type File struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Manager handles finding suppressions
type Manager struct {
	configPath string
	file       *File
	enabled    bool
}

// SuppressedFinding pairs a filtered finding with the rule that filtered it.
type SuppressedFinding struct {
	Finding      audit.Finding `json:"finding"`
	SuppressedBy string        `json:"suppressed_by"`
	Reason       string        `json:"reason"`
}

// NewManager creates a suppression manager. A missing or unreadable file
// yields an empty, enabled manager.
func NewManager(configPath string) *Manager {
	m := &Manager{configPath: configPath, enabled: true}
	m.load()
	return m
}

func (m *Manager) load() {
	m.file = &File{Version: "1.0"}
	if m.configPath == "" {
		return
	}
	data, err := os.ReadFile(filepath.Clean(m.configPath))
	if err != nil {
		return
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return
	}
	m.file = &f
}

func (m *Manager) save() error {
	if m.configPath == "" {
		return fmt.Errorf("no suppression file path configured")
	}
	data, err := yaml.Marshal(m.file)
	if err != nil {
		return err
	}
	return os.WriteFile(m.configPath, data, 0o600)
}

// findingHash builds the suppression identity for a finding: the rule id
// plus the document and page of its first evidence, plus a digest of the
// quote so a moved finding is not silently hidden.
func findingHash(f audit.Finding) string {
	doc, page, quote := "", 0, ""
	if len(f.Evidence) > 0 {
		doc = f.Evidence[0].DocName
		page = f.Evidence[0].PageNumber
		quote = f.Evidence[0].Quote
	}
	quoteDigest := sha256.Sum256([]byte(quote))
	composite := f.RuleID + "|" + doc + "|" + strconv.Itoa(page) + "|" + fmt.Sprintf("%x", quoteDigest)[:16]
	sum := sha256.Sum256([]byte(composite))
	return fmt.Sprintf("%x", sum)
}

// IsSuppressed checks if a finding should be suppressed
func (m *Manager) IsSuppressed(f audit.Finding) (bool, *Rule) {
	if !m.enabled || m.file == nil {
		return false, nil
	}
	hash := findingHash(f)
	for i := range m.file.Rules {
		rule := &m.file.Rules[i]
		if rule.Hash != hash || !rule.Enabled {
			continue
		}
		if rule.ExpiresAt != nil && time.Now().After(*rule.ExpiresAt) {
			continue
		}
		return true, rule
	}
	return false, nil
}

// Add records a new suppression rule for a finding and saves the file.
func (m *Manager) Add(f audit.Finding, reason, createdBy string, expiresAt *time.Time) error {
	hash := findingHash(f)
	for _, rule := range m.file.Rules {
		if rule.Hash == hash {
			return fmt.Errorf("suppression rule already exists for this finding")
		}
	}

	maxID := 0
	for _, rule := range m.file.Rules {
		var num int
		if _, err := fmt.Sscanf(rule.ID, "SUP-%08d", &num); err == nil && num > maxID {
			maxID = num
		}
	}

	m.file.Rules = append(m.file.Rules, Rule{
		ID:        fmt.Sprintf("SUP-%08d", maxID+1),
		Hash:      hash,
		Reason:    reason,
		Enabled:   true,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	})
	return m.save()
}

// Apply splits findings into kept and suppressed, preserving order.
func (m *Manager) Apply(findings []audit.Finding) ([]audit.Finding, []SuppressedFinding) {
	var kept []audit.Finding
	var suppressed []SuppressedFinding
	for _, f := range findings {
		if ok, rule := m.IsSuppressed(f); ok {
			suppressed = append(suppressed, SuppressedFinding{
				Finding:      f,
				SuppressedBy: rule.ID,
				Reason:       rule.Reason,
			})
			continue
		}
		kept = append(kept, f)
	}
	return kept, suppressed
}

// SetEnabled toggles suppression checking without touching the file.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// List returns the loaded rules.
func (m *Manager) List() []Rule {
	return m.file.Rules
}
