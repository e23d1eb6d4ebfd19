// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package intel fetches exploited-in-the-wild evidence from public feeds
// and flattens it into the threat-intel map the scoring engine consumes.
// EPSS exploitation probabilities form the baseline; any CVE listed in
// the CISA KEV catalog is raised to 1.0 (actively exploited). Feeds are
// cached on disk with a freshness window so repeated runs stay offline.
package intel

import (
	"fmt"

	"github.com/sentinelsoft/riskcalc/internal/types"
)

// Fetcher loads the KEV and EPSS feeds and merges them into one
// threat-intel snapshot.
type Fetcher struct {
	kev  *kevFeed
	epss *epssFeed
}

// NewFetcher creates a fetcher caching under cacheDir/{kev,epss}/.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{
		kev:  newKEVFeed(cacheDir),
		epss: newEPSSFeed(cacheDir),
	}
}

// Load fetches both feeds, using cached copies when appropriate. With
// skipUpdate set, existing caches are used regardless of age.
func (f *Fetcher) Load(skipUpdate bool) error {
	if err := f.epss.load(skipUpdate); err != nil {
		return fmt.Errorf("loading EPSS feed: %w", err)
	}
	if err := f.kev.load(skipUpdate); err != nil {
		return fmt.Errorf("loading KEV feed: %w", err)
	}
	return nil
}

// Snapshot merges the loaded feeds into a threat-intel map. KEV
// membership overrides the EPSS probability: a CVE an adversary is known
// to exploit scores 1.0 no matter what the model predicts.
func (f *Fetcher) Snapshot() types.ThreatIntel {
	out := make(types.ThreatIntel, len(f.epss.scores)+len(f.kev.cves))
	for cve, score := range f.epss.scores {
		out[cve] = score
	}
	for cve := range f.kev.cves {
		out[cve] = 1.0
	}
	return out
}

// ScoreDate returns the score date from the EPSS feed header, if the
// feed carried one.
func (f *Fetcher) ScoreDate() string {
	return f.epss.scoreDate
}
