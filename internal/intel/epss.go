// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package intel

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	epssCacheFilename  = "epss_scores.csv"
	epssBaseURL        = "https://epss.empiricalsecurity.com"
	epssMaxDecompessed = 100 * 1024 * 1024 // 100 MB
)

var epssClient = &http.Client{Timeout: 60 * time.Second}

// epssFeed is the FIRST EPSS daily scores feed, reduced to CVE ->
// exploitation probability. Probabilities already live in [0,1]; they
// are clamped anyway so a malformed row cannot poison the snapshot.
type epssFeed struct {
	cache        *cache
	scores       map[string]float64
	modelVersion string
	scoreDate    string
}

func newEPSSFeed(cacheDir string) *epssFeed {
	return &epssFeed{
		cache:  newCache(filepath.Join(cacheDir, "epss")),
		scores: make(map[string]float64),
	}
}

// load fetches the EPSS scores, using cache when appropriate. The cache
// logic matches kevFeed.load.
func (f *epssFeed) load(skipUpdate bool) error {
	if skipUpdate && f.cache.exists(epssCacheFilename) {
		return f.loadFromCache()
	}

	if f.cache.isFresh() {
		return f.loadFromCache()
	}

	data, err := epssDownload()
	if err == nil {
		if storeErr := f.cache.store(epssCacheFilename, data); storeErr != nil {
			return fmt.Errorf("storing EPSS scores in cache: %w", storeErr)
		}
		return f.parseCSV(data)
	}

	if f.cache.exists(epssCacheFilename) {
		fmt.Fprintf(os.Stderr, "warning: failed to download EPSS scores (%v), using stale cache\n", err)
		return f.loadFromCache()
	}

	return fmt.Errorf("downloading EPSS scores: %w", err)
}

func (f *epssFeed) loadFromCache() error {
	data, err := f.cache.load(epssCacheFilename)
	if err != nil {
		return fmt.Errorf("loading EPSS scores from cache: %w", err)
	}
	return f.parseCSV(data)
}

// epssDownload fetches the gzip-compressed CSV for today's date, falling
// back to yesterday's when today's file is not published yet.
func epssDownload() ([]byte, error) {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	data, err := epssDownloadForDate(today)
	if err == nil {
		return data, nil
	}

	data, err2 := epssDownloadForDate(yesterday)
	if err2 == nil {
		return data, nil
	}

	return nil, fmt.Errorf("today (%s): %w; yesterday (%s): %v", today, err, yesterday, err2)
}

func epssDownloadForDate(date string) ([]byte, error) {
	url := fmt.Sprintf("%s/epss_scores-%s.csv.gz", epssBaseURL, date)

	resp, err := epssClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	data, err := io.ReadAll(io.LimitReader(gz, epssMaxDecompessed))
	if err != nil {
		return nil, fmt.Errorf("reading gzip data: %w", err)
	}

	return data, nil
}

// parseCSV parses the scores CSV and rebuilds the probability map. The
// comment header carries model_version and score_date metadata.
func (f *epssFeed) parseCSV(data []byte) error {
	f.scores = make(map[string]float64)
	f.modelVersion = ""
	f.scoreDate = ""

	lines := strings.Split(string(data), "\n")

	dataStart := 0
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			dataStart = i
			break
		}
		f.parseCommentLine(line)
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[dataStart:], "\n")))

	// Read and discard the CSV header line.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("reading CSV header: %w", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading CSV record: %w", err)
		}

		if len(record) < 2 {
			continue
		}

		score, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return fmt.Errorf("parsing EPSS score for %s: %w", record[0], err)
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		f.scores[record[0]] = score
	}

	return nil
}

// parseCommentLine extracts metadata from a comment line like:
// #model_version:v2025.03.14,score_date:2026-02-12T00:00:00+0000
func (f *epssFeed) parseCommentLine(line string) {
	line = strings.TrimPrefix(line, "#")
	for _, part := range strings.Split(line, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.TrimSpace(kv[0]) {
		case "model_version":
			f.modelVersion = strings.TrimSpace(kv[1])
		case "score_date":
			f.scoreDate = strings.TrimSpace(kv[1])
		}
	}
}
