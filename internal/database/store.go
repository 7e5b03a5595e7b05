package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the database operations used by the response cache.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetCachedResponse returns the cached response for key,
	// or "", false when the key is absent.
	GetCachedResponse(ctx context.Context, key string) (string, bool, error)

	// PutCachedResponse inserts or replaces the cached response for key.
	PutCachedResponse(ctx context.Context, entry *CachedResponse) error

	// PruneCache deletes entries created before cutoff and returns how many
	// rows were removed.
	PruneCache(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance reclaims free space after pruning.
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given sqlx connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (s *sqlxStore) GetCachedResponse(ctx context.Context, key string) (string, bool, error) {
	var entry CachedResponse
	err := s.db.GetContext(ctx, &entry,
		`SELECT key, model, response, created_at FROM response_cache WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return entry.Response, true, nil
}

func (s *sqlxStore) PutCachedResponse(ctx context.Context, entry *CachedResponse) error {
	if entry == nil || entry.Key == "" {
		return errors.New("cache entry must have a key")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO response_cache (key, model, response, created_at)
		 VALUES (:key, :model, :response, :created_at)
		 ON CONFLICT(key) DO UPDATE SET
		   model = excluded.model,
		   response = excluded.response,
		   created_at = excluded.created_at`, entry)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	s.logger.DebugContext(ctx, "cache entry stored", "key", entry.Key, "model", entry.Model)
	return nil
}

func (s *sqlxStore) PruneCache(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return removed, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum failed: %w", err)
	}
	return nil
}
