// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package intel

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	kevCacheFilename = "known_exploited_vulnerabilities.json"
	kevPrimaryURL    = "https://www.cisa.gov/sites/default/files/feeds/known_exploited_vulnerabilities.json"
	kevFallbackURL   = "https://raw.githubusercontent.com/cisagov/kev-data/main/known_exploited_vulnerabilities.json"
	kevMaxResponse   = 50 * 1024 * 1024 // 50 MB
)

var kevClient = &http.Client{Timeout: 60 * time.Second}

// kevCatalog is the subset of the CISA KEV catalog document the fetcher
// reads; membership is the only signal it needs.
type kevCatalog struct {
	CatalogVersion  string `json:"catalogVersion"`
	Vulnerabilities []struct {
		CVEID string `json:"cveID"`
	} `json:"vulnerabilities"`
}

// kevFeed is the CISA Known Exploited Vulnerabilities catalog, reduced
// to the set of listed CVE IDs.
type kevFeed struct {
	cache          *cache
	cves           map[string]struct{}
	catalogVersion string
}

func newKEVFeed(cacheDir string) *kevFeed {
	return &kevFeed{
		cache: newCache(filepath.Join(cacheDir, "kev")),
		cves:  make(map[string]struct{}),
	}
}

// load fetches the KEV catalog, using cache when appropriate.
//
// Logic:
//  1. If skipUpdate and cache exists -> load from cache, parse, return.
//  2. If cache is fresh -> load from cache, parse, return.
//  3. Download fresh data.
//  4. If download succeeds -> store in cache, parse, return.
//  5. If download fails and cache exists -> warn to stderr, load stale cache, parse, return.
//  6. If download fails and no cache -> return error.
func (f *kevFeed) load(skipUpdate bool) error {
	if skipUpdate && f.cache.exists(kevCacheFilename) {
		return f.loadFromCache()
	}

	if f.cache.isFresh() {
		return f.loadFromCache()
	}

	data, err := kevDownload()
	if err == nil {
		if storeErr := f.cache.store(kevCacheFilename, data); storeErr != nil {
			return fmt.Errorf("storing KEV catalog in cache: %w", storeErr)
		}
		return f.parseJSON(data)
	}

	if f.cache.exists(kevCacheFilename) {
		fmt.Fprintf(os.Stderr, "warning: failed to download KEV catalog (%v), using stale cache\n", err)
		return f.loadFromCache()
	}

	return fmt.Errorf("downloading KEV catalog: %w", err)
}

func (f *kevFeed) loadFromCache() error {
	data, err := f.cache.load(kevCacheFilename)
	if err != nil {
		return fmt.Errorf("loading KEV catalog from cache: %w", err)
	}
	return f.parseJSON(data)
}

// kevDownload fetches the catalog JSON from the primary URL, falling
// back to the GitHub mirror.
func kevDownload() ([]byte, error) {
	data, err := kevDownloadFrom(kevPrimaryURL)
	if err == nil {
		return data, nil
	}

	data, err2 := kevDownloadFrom(kevFallbackURL)
	if err2 == nil {
		return data, nil
	}

	return nil, fmt.Errorf("primary (%s): %w; fallback (%s): %v", kevPrimaryURL, err, kevFallbackURL, err2)
}

func kevDownloadFrom(url string) ([]byte, error) {
	resp, err := kevClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, kevMaxResponse))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return data, nil
}

// parseJSON unmarshals the catalog and rebuilds the CVE membership set.
func (f *kevFeed) parseJSON(data []byte) error {
	var catalog kevCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("unmarshaling KEV catalog: %w", err)
	}

	f.cves = make(map[string]struct{}, len(catalog.Vulnerabilities))
	for _, vuln := range catalog.Vulnerabilities {
		if vuln.CVEID != "" {
			f.cves[vuln.CVEID] = struct{}{}
		}
	}
	f.catalogVersion = catalog.CatalogVersion

	return nil
}
