package archive

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/fetch"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for fetch rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store writes fetch rows into Postgres, snapshotting page content through
// an optional SnapshotStore. It implements fetch.Archiver.
type Store struct {
	pool      execCloser
	table     string
	snapshots *SnapshotStore
	logger    *zap.Logger
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config, snapshots *SnapshotStore, logger *zap.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("archive.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "fetches"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newStore(pool, table, snapshots, logger), nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string, snapshots *SnapshotStore, logger *zap.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "fetches"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return newStore(pool, table, snapshots, logger), nil
}

func newStore(pool execCloser, table string, snapshots *SnapshotStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, table: table, snapshots: snapshots, logger: logger}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Archive persists one fetch: snapshot first (when configured), then the
// row. A failed snapshot still produces a row, just without a URI.
func (s *Store) Archive(ctx context.Context, entry fetch.ArchiveEntry) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("archive store is not configured")
	}

	record := Record{
		ID:           uuid.NewString(),
		URL:          entry.URL,
		Hash:         contentHash(entry.Content),
		StatusCode:   entry.StatusCode,
		UsedBrowser:  entry.UsedBrowser,
		FetchedAt:    entry.FetchedAt.UTC(),
		DurationMS:   entry.Duration.Milliseconds(),
		ContentBytes: len(entry.Content),
	}

	if s.snapshots != nil {
		uri, err := s.snapshots.Put(snapshotPath(record), entry.Content)
		if err != nil {
			s.logger.Warn("snapshot write failed", zap.String("url", entry.URL), zap.Error(err))
		} else {
			record.SnapshotURI = uri
		}
	}

	return s.insert(ctx, record)
}

func (s *Store) insert(ctx context.Context, record Record) error {
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	fetched_at,
	url,
	content_hash,
	snapshot_uri,
	status_code,
	used_browser,
	duration_ms,
	content_bytes
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`, s.table)

	args := []any{
		record.ID,
		record.FetchedAt,
		record.URL,
		record.Hash,
		record.SnapshotURI,
		record.StatusCode,
		record.UsedBrowser,
		record.DurationMS,
		record.ContentBytes,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fetch row: %w", err)
	}
	return nil
}

// snapshotPath shards snapshots by fetch date so the directory tree stays
// navigable.
func snapshotPath(record Record) string {
	return fmt.Sprintf("%s/%s.html", record.FetchedAt.Format("2006-01-02"), record.ID)
}
