// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package input parses inventory documents. An inventory carries the
// assets, vulnerabilities, and threat-intel scores a scoring run works
// on, as either JSON or YAML.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Inventory is the on-disk document shape. Threat-intel scores map CVE
// IDs to exploited-in-the-wild probabilities in [0,1].
type Inventory struct {
	Assets          []*types.Asset         `json:"assets" yaml:"assets"`
	Vulnerabilities []*types.Vulnerability `json:"vulnerabilities" yaml:"vulnerabilities"`
	ThreatIntel     types.ThreatIntel      `json:"threatIntel" yaml:"threatIntel"`
}

// ParseResult is a parsed inventory together with the format it was
// detected as.
type ParseResult struct {
	Format    Format
	Inventory *Inventory
}

// Parse detects whether data is JSON or YAML, decodes it, and validates
// the result. JSON is a subset of YAML, so the probe tries JSON first.
func Parse(data []byte) (*ParseResult, error) {
	var inv Inventory

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&inv); err == nil {
		if err := validate(&inv); err != nil {
			return nil, err
		}
		return &ParseResult{Format: FormatJSON, Inventory: &inv}, nil
	}

	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("unrecognized input format: not inventory JSON or YAML: %w", err)
	}
	if err := validate(&inv); err != nil {
		return nil, err
	}
	return &ParseResult{Format: FormatYAML, Inventory: &inv}, nil
}

// validate rejects documents that would corrupt the registries: missing
// or duplicated IDs, and threat-intel scores outside [0,1].
func validate(inv *Inventory) error {
	assetIDs := make(map[string]struct{}, len(inv.Assets))
	for i, a := range inv.Assets {
		if a == nil || a.ID == "" {
			return fmt.Errorf("asset %d: missing id", i)
		}
		if _, dup := assetIDs[a.ID]; dup {
			return fmt.Errorf("asset %d: duplicate id %q", i, a.ID)
		}
		assetIDs[a.ID] = struct{}{}
	}
	vulnIDs := make(map[string]struct{}, len(inv.Vulnerabilities))
	for i, v := range inv.Vulnerabilities {
		if v == nil || v.ID == "" {
			return fmt.Errorf("vulnerability %d: missing id", i)
		}
		if _, dup := vulnIDs[v.ID]; dup {
			return fmt.Errorf("vulnerability %d: duplicate id %q", i, v.ID)
		}
		vulnIDs[v.ID] = struct{}{}
	}
	for cve, score := range inv.ThreatIntel {
		if score < 0 || score > 1 {
			return fmt.Errorf("threat intel %s: score %v outside [0,1]", cve, score)
		}
	}
	return nil
}
