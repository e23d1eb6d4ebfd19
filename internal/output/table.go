// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	aqtable "github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sentinelsoft/riskcalc/internal/engine"
	"github.com/sentinelsoft/riskcalc/internal/types"
)

const maxRecommendationWords = 12

// TableConfig controls which sections are displayed and how asset rows
// are sorted.
type TableConfig struct {
	ShowScenarios bool
	ShowEnsemble  bool
	SortBy        string // "score", "asset", "" (preserve order)
	IsTerminal    bool   // true when output goes to a terminal (enables ANSI styling)
}

// IsOutputToTerminal returns true if the writer is stdout connected to a
// character device (TTY).
func IsOutputToTerminal(output io.Writer) bool {
	return output == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// WriteTable renders an assessment as a sequence of tables: the asset
// risk ranking, then the scenario and ensemble sections when enabled.
func WriteTable(w io.Writer, a *engine.Assessment, ensembles []types.EnsembleRiskScore, cfg TableConfig) error {
	writeSectionHeader(w, "Asset Risk Ranking", cfg.IsTerminal)
	fmt.Fprintln(w, summaryLine(a.Summary))
	fmt.Fprintln(w)

	rows := make([]types.RiskCalculationResult, len(a.Results))
	copy(rows, a.Results)
	sortRows(rows, cfg.SortBy)
	writeAssetTable(w, rows, cfg)

	if cfg.ShowScenarios && len(a.Scenarios) > 0 {
		fmt.Fprintln(w)
		writeSectionHeader(w, fmt.Sprintf("Risk Scenarios (Total: %d)", len(a.Scenarios)), cfg.IsTerminal)
		writeScenarioTable(w, a.Scenarios, cfg)
	}

	if cfg.ShowEnsemble && len(ensembles) > 0 {
		fmt.Fprintln(w)
		writeSectionHeader(w, "Ensemble Confidence Scores", cfg.IsTerminal)
		writeEnsembleTable(w, ensembles, cfg)
	}

	return nil
}

// writeSectionHeader writes an underlined section title.
func writeSectionHeader(w io.Writer, title string, isTerminal bool) {
	if isTerminal {
		_ = tml.Fprintf(w, "<underline><bold>%s</bold></underline>\n", title)
	} else {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
	}
}

// newTableWriter creates a table writer with the standard configuration:
// borders, auto-merge, and row separators. When isTerminal is true, header
// and line styles use ANSI formatting.
func newTableWriter(w io.Writer, isTerminal bool) *aqtable.Table {
	tw := aqtable.New(w)
	if isTerminal {
		tw.SetHeaderStyle(aqtable.StyleBold)
		tw.SetLineStyle(aqtable.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetAutoMerge(true)
	tw.SetRowLines(true)
	return tw
}

func writeAssetTable(w io.Writer, rows []types.RiskCalculationResult, cfg TableConfig) {
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Asset", "Risk Score", "Level", "Vuln Risk", "Exposure", "Criticality", "Threat", "Top Recommendation")
	for i := range rows {
		r := &rows[i]
		level := scoreLevel(r.TotalRiskScore)
		if cfg.IsTerminal {
			level = colorizeLevel(level)
		}
		tw.AddRow(
			r.AssetID,
			fmt.Sprintf("%.1f", r.TotalRiskScore),
			level,
			fmt.Sprintf("%.1f", r.VulnerabilityRisk),
			fmt.Sprintf("%.1f", r.ExposureRisk),
			fmt.Sprintf("%.1fx", r.CriticalityMultiplier),
			fmt.Sprintf("%.2fx", r.ThreatIntelligenceFactor),
			topRecommendation(r),
		)
	}
	tw.Render()
}

func writeScenarioTable(w io.Writer, scenarios []types.RiskScenario, cfg TableConfig) {
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Scenario", "Severity", "Likelihood", "Impact", "Business Risk", "Detection", "Assets")
	for i := range scenarios {
		s := &scenarios[i]
		severity := string(s.Severity)
		if cfg.IsTerminal {
			severity = colorizeLevel(severity)
		}
		tw.AddRow(
			s.Title,
			severity,
			string(s.Likelihood),
			string(s.Impact),
			fmt.Sprintf("%.1f", s.BusinessRiskScore),
			fmt.Sprintf("%.0f%%", s.DetectionCoverage),
			fmt.Sprintf("%d", len(s.AffectedAssetIDs)),
		)
	}
	tw.Render()
}

func writeEnsembleTable(w io.Writer, ensembles []types.EnsembleRiskScore, cfg TableConfig) {
	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Asset", "Score", "95% Interval", "Confidence", "Agreement", "Tier", "Level")
	for i := range ensembles {
		e := &ensembles[i]
		level := e.RiskLevel
		if cfg.IsTerminal {
			level = colorizeLevel(level)
		}
		tw.AddRow(
			e.AssetID,
			fmt.Sprintf("%.2f", e.Score),
			fmt.Sprintf("[%.1f, %.1f]", e.ConfidenceInterval.Lower, e.ConfidenceInterval.Upper),
			fmt.Sprintf("%.0f%%", e.Confidence*100),
			fmt.Sprintf("%.0f%%", e.ModelAgreement*100),
			string(e.PrecisionTier),
			level,
		)
	}
	tw.Render()
}

// summaryLine returns a line like:
// Assets: 40 (Critical: 2, High: 5, Medium: 12, Low: 21) | Vulnerabilities: 20 | Scenarios: 7 | Average Risk: 48.3
func summaryLine(s types.Summary) string {
	return fmt.Sprintf("Assets: %d (Critical: %d, High: %d, Medium: %d, Low: %d) | Vulnerabilities: %d | Scenarios: %d | Average Risk: %.1f",
		s.TotalAssets, s.CriticalAssets, s.HighRiskAssets, s.MediumRiskAssets, s.LowRiskAssets,
		s.TotalVulnerabilities, s.RiskScenarios, s.AverageRiskScore)
}

// scoreLevel maps a total risk score into the summary buckets.
func scoreLevel(score float64) string {
	switch {
	case score >= 90:
		return "Critical"
	case score >= 70:
		return "High"
	case score >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// levelColors maps risk level names to color functions.
var levelColors = map[string]func(a ...any) string{
	"LOW":       color.New(color.FgBlue).SprintFunc(),
	"MEDIUM":    color.New(color.FgYellow).SprintFunc(),
	"HIGH":      color.New(color.FgHiRed).SprintFunc(),
	"CRITICAL":  color.New(color.FgRed).SprintFunc(),
	"UNCERTAIN": color.New(color.FgCyan).SprintFunc(),
}

// colorizeLevel returns the level string wrapped in ANSI color codes.
func colorizeLevel(level string) string {
	if fn, ok := levelColors[strings.ToUpper(level)]; ok {
		return fn(level)
	}
	return level
}

// sortRows sorts the asset result rows based on the given sort key.
func sortRows(rows []types.RiskCalculationResult, sortBy string) {
	switch sortBy {
	case "score":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].TotalRiskScore > rows[j].TotalRiskScore
		})
	case "asset":
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].AssetID < rows[j].AssetID
		})
	default:
		// preserve original order
	}
}

// topRecommendation returns the highest-priority recommendation truncated
// to maxRecommendationWords words.
func topRecommendation(r *types.RiskCalculationResult) string {
	if len(r.Recommendations) == 0 {
		return "-"
	}
	return truncateWords(r.Recommendations[0], maxRecommendationWords)
}

// truncateWords limits text to maxWords words, appending "..." if truncated.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
