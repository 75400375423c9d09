// Package archive persists fetch history: one Postgres row per successful
// fetch, with the raw HTML snapshotted to the local filesystem.
package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Record is the persisted form of one fetch.
type Record struct {
	ID           string
	URL          string
	Hash         string
	SnapshotURI  string
	StatusCode   int
	UsedBrowser  bool
	FetchedAt    time.Time
	DurationMS   int64
	ContentBytes int
}

// contentHash returns the hex SHA-256 digest of the page content. Identical
// pages fetched twice share a hash, which makes change detection a query.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
