// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package types defines the in-memory contracts shared by the scoring,
// correlation, and ensemble packages: vulnerability and asset records as
// produced by the ingestion collaborators, and the result shapes consumed
// by exporters. Wire encoding of these structs is the exporter's concern;
// the JSON/YAML tags here only fix field names and numeric ranges.
package types

import "time"

// Severity is a vulnerability severity label.
type Severity string

const (
	SeverityCritical      Severity = "Critical"
	SeverityHigh          Severity = "High"
	SeverityMedium        Severity = "Medium"
	SeverityLow           Severity = "Low"
	SeverityInformational Severity = "Informational"
)

// Criticality is the business criticality assigned to an asset.
type Criticality string

const (
	CriticalityMissionCritical Criticality = "Mission Critical"
	CriticalityHigh            Criticality = "High"
	CriticalityMedium          Criticality = "Medium"
	CriticalityLow             Criticality = "Low"
)

// PatchLevel describes an asset's patch hygiene.
type PatchLevel string

const (
	PatchLevelCurrent  PatchLevel = "Current"
	PatchLevelOutdated PatchLevel = "Outdated"
	PatchLevelCritical PatchLevel = "Critical"
	PatchLevelUnknown  PatchLevel = "Unknown"
)

// AntivirusStatus describes the state of an asset's antivirus agent.
type AntivirusStatus string

const (
	AntivirusActive   AntivirusStatus = "Active"
	AntivirusOutdated AntivirusStatus = "Outdated"
	AntivirusInactive AntivirusStatus = "Inactive"
	AntivirusUnknown  AntivirusStatus = "Unknown"
)

// AttackVector is the CVSS attack vector of a vulnerability. The empty
// string means the vector is unknown.
type AttackVector string

const (
	VectorNetwork  AttackVector = "Network"
	VectorAdjacent AttackVector = "Adjacent"
	VectorLocal    AttackVector = "Local"
	VectorPhysical AttackVector = "Physical"
)

// Likelihood is the qualitative likelihood of a risk scenario.
type Likelihood string

const (
	LikelihoodRare     Likelihood = "Rare"
	LikelihoodPossible Likelihood = "Possible"
	LikelihoodLikely   Likelihood = "Likely"
	LikelihoodCertain  Likelihood = "Certain"
)

// Impact is the qualitative impact of a risk scenario.
type Impact string

const (
	ImpactMinimal      Impact = "Minimal"
	ImpactSignificant  Impact = "Significant"
	ImpactCatastrophic Impact = "Catastrophic"
)

// PrecisionTier gates whether an ensemble result should be treated as
// authoritative.
type PrecisionTier string

const (
	TierUltraHigh PrecisionTier = "ultra_high"
	TierStandard  PrecisionTier = "standard"
	TierLow       PrecisionTier = "low"
)

// Vulnerability is a normalized security finding. Records are produced by
// the ingestion collaborators or entered manually; once scored they are
// immutable apart from RemediationStatus, which scoring never reads.
type Vulnerability struct {
	ID                 string       `json:"id" yaml:"id"`
	CVEID              string       `json:"cveId,omitempty" yaml:"cveId,omitempty"`
	Title              string       `json:"title,omitempty" yaml:"title,omitempty"`
	Description        string       `json:"description,omitempty" yaml:"description,omitempty"`
	Severity           Severity     `json:"severity" yaml:"severity"`
	CVSSScore          float64      `json:"cvssScore" yaml:"cvssScore"`
	AttackVector       AttackVector `json:"attackVector,omitempty" yaml:"attackVector,omitempty"`
	AttackComplexity   string       `json:"attackComplexity,omitempty" yaml:"attackComplexity,omitempty"`
	PrivilegesRequired string       `json:"privilegesRequired,omitempty" yaml:"privilegesRequired,omitempty"`
	// PublishedDate is zero when the publication date is unknown; age
	// statistics treat it as missing data rather than an epoch date.
	PublishedDate     time.Time `json:"publishedDate,omitempty" yaml:"publishedDate,omitempty"`
	DiscoveredDate    time.Time `json:"discoveredDate,omitempty" yaml:"discoveredDate,omitempty"`
	ExploitAvailable  bool      `json:"exploitAvailable" yaml:"exploitAvailable"`
	ExploitPublic     bool      `json:"exploitPublic" yaml:"exploitPublic"`
	ActivelyExploited bool      `json:"activelyExploited" yaml:"activelyExploited"`
	PatchAvailable    bool      `json:"patchAvailable" yaml:"patchAvailable"`
	RemediationStatus string    `json:"remediationStatus,omitempty" yaml:"remediationStatus,omitempty"`
	AffectedAssets    []string  `json:"affectedAssets,omitempty" yaml:"affectedAssets,omitempty"`
}

// Asset is an inventory record. VulnerabilityIDs may reference records that
// are not (or no longer) known; scoring filters dangling references silently.
// RiskScore holds the last computed total risk and is written exclusively by
// the asset aggregator.
type Asset struct {
	ID                   string          `json:"id" yaml:"id"`
	Name                 string          `json:"name,omitempty" yaml:"name,omitempty"`
	Criticality          Criticality     `json:"criticality" yaml:"criticality"`
	ExposedToInternet    bool            `json:"exposedToInternet" yaml:"exposedToInternet"`
	ContainsSensitiveData bool           `json:"containsSensitiveData" yaml:"containsSensitiveData"`
	FirewallEnabled      bool            `json:"firewallEnabled" yaml:"firewallEnabled"`
	PatchLevel           PatchLevel      `json:"patchLevel" yaml:"patchLevel"`
	AntivirusStatus      AntivirusStatus `json:"antivirusStatus" yaml:"antivirusStatus"`
	Location             string          `json:"location,omitempty" yaml:"location,omitempty"`
	VulnerabilityIDs     []string        `json:"vulnerabilityIds,omitempty" yaml:"vulnerabilityIds,omitempty"`
	LastScanDate         time.Time       `json:"lastScanDate,omitempty" yaml:"lastScanDate,omitempty"`
	RiskScore            float64         `json:"riskScore" yaml:"riskScore"`
}

// DisplayName returns the asset's name, falling back to its ID.
func (a *Asset) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// ThreatIntel maps a CVE identifier to an exploited-in-the-wild score in
// [0,1], where 1.0 means actively exploited. Read-only to the engine.
type ThreatIntel map[string]float64
