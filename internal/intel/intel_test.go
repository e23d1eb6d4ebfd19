// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package intel

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKEVJSON = `{
  "catalogVersion": "2026.08.20",
  "count": 2,
  "vulnerabilities": [
    {"cveID": "CVE-2024-1234", "vendorProject": "ExampleVendor"},
    {"cveID": "CVE-2023-5678", "vendorProject": "AnotherVendor"}
  ]
}`

const sampleEPSSCSV = `#model_version:v2025.03.14,score_date:2026-08-25T00:00:00+0000
cve,epss,percentile
CVE-2024-1234,0.12345,0.91000
CVE-2021-9999,0.00042,0.09000
CVE-2020-0001,1.50000,1.00000
`

func TestKEVParseJSON(t *testing.T) {
	f := &kevFeed{cves: make(map[string]struct{})}
	require.NoError(t, f.parseJSON([]byte(sampleKEVJSON)))

	require.Len(t, f.cves, 2)
	assert.Contains(t, f.cves, "CVE-2024-1234")
	assert.Contains(t, f.cves, "CVE-2023-5678")
	assert.Equal(t, "2026.08.20", f.catalogVersion)
}

func TestEPSSParseCSV(t *testing.T) {
	f := &epssFeed{scores: make(map[string]float64)}
	require.NoError(t, f.parseCSV([]byte(sampleEPSSCSV)))

	require.Len(t, f.scores, 3)
	assert.InDelta(t, 0.12345, f.scores["CVE-2024-1234"], 1e-9)
	assert.InDelta(t, 0.00042, f.scores["CVE-2021-9999"], 1e-9)
	// Out-of-range rows are clamped, not rejected.
	assert.Equal(t, 1.0, f.scores["CVE-2020-0001"])
	assert.Equal(t, "v2025.03.14", f.modelVersion)
	assert.Equal(t, "2026-08-25T00:00:00+0000", f.scoreDate)
}

func TestEPSSParseCSV_Empty(t *testing.T) {
	f := &epssFeed{scores: make(map[string]float64)}
	require.NoError(t, f.parseCSV([]byte("")))
	assert.Empty(t, f.scores)
}

func TestSnapshot_KEVOverridesEPSS(t *testing.T) {
	f := NewFetcher(t.TempDir())
	require.NoError(t, f.epss.parseCSV([]byte(sampleEPSSCSV)))
	require.NoError(t, f.kev.parseJSON([]byte(sampleKEVJSON)))

	snap := f.Snapshot()

	// KEV membership wins over the EPSS probability.
	assert.Equal(t, 1.0, snap["CVE-2024-1234"])
	// KEV-only entries score 1.0 too.
	assert.Equal(t, 1.0, snap["CVE-2023-5678"])
	// EPSS-only entries keep their probability.
	assert.InDelta(t, 0.00042, snap["CVE-2021-9999"], 1e-9)

	assert.Equal(t, "2026-08-25T00:00:00+0000", f.ScoreDate())
}

// writeFreshCache seeds dir with data and a metadata.json recent enough
// to count as fresh.
func writeFreshCache(t *testing.T, dir, filename string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), data, 0o644))

	meta := cacheMetadata{FetchedAt: time.Now().UTC().Format(time.RFC3339)}
	metaBytes, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metadata.json"), metaBytes, 0o644))
}

func TestFetcher_Load_FromCache(t *testing.T) {
	tmpDir := t.TempDir()
	writeFreshCache(t, filepath.Join(tmpDir, "kev"), kevCacheFilename, []byte(sampleKEVJSON))
	writeFreshCache(t, filepath.Join(tmpDir, "epss"), epssCacheFilename, []byte(sampleEPSSCSV))

	f := NewFetcher(tmpDir)

	// skipUpdate=true loads from cache without any network calls.
	require.NoError(t, f.Load(true))

	snap := f.Snapshot()
	assert.Equal(t, 1.0, snap["CVE-2024-1234"])
	assert.InDelta(t, 0.00042, snap["CVE-2021-9999"], 1e-9)
}

func TestCache_Freshness(t *testing.T) {
	c := newCache(t.TempDir())

	// No metadata yet.
	assert.False(t, c.isFresh())

	require.NoError(t, c.store("data.json", []byte("{}")))
	assert.True(t, c.isFresh())
	assert.True(t, c.exists("data.json"))
	assert.False(t, c.exists("missing.json"))

	data, err := c.load("data.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), data)

	// Backdate the metadata beyond the TTL.
	meta := cacheMetadata{
		FetchedAt: time.Now().UTC().Add(-25 * time.Hour).Format(time.RFC3339),
	}
	metaBytes, err := json.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(c.dir, "metadata.json"), metaBytes, 0o644))
	assert.False(t, c.isFresh())
}
