// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package intel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultTTL = 24 * time.Hour

type cacheMetadata struct {
	FetchedAt string `json:"fetched_at"`
}

// cache is a single-directory file cache with a freshness window. Each
// feed gets its own directory so their metadata files do not collide.
type cache struct {
	dir string
	ttl time.Duration
}

func newCache(dir string) *cache {
	return &cache{dir: dir, ttl: defaultTTL}
}

func (c *cache) isFresh() bool {
	meta, err := c.loadMetadata()
	if err != nil {
		return false
	}
	fetchedAt, err := time.Parse(time.RFC3339, meta.FetchedAt)
	if err != nil {
		return false
	}
	return time.Since(fetchedAt) < c.ttl
}

func (c *cache) store(filename string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("writing cache data: %w", err)
	}
	meta := cacheMetadata{FetchedAt: time.Now().UTC().Format(time.RFC3339)}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, "metadata.json"), metaBytes, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

func (c *cache) load(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(c.dir, filename))
}

func (c *cache) exists(filename string) bool {
	_, err := os.Stat(filepath.Join(c.dir, filename))
	return err == nil
}

func (c *cache) loadMetadata() (*cacheMetadata, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta cacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
