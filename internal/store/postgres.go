package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/sketchboard/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS canvas_snapshots (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (session_id, version)
)`

// NewPool connects to Postgres and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// PostgresStore keeps snapshots in the canvas_snapshots table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the snapshot table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, sessionID string, doc []byte) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        typeid.NewSnapshotID(),
		SessionID: sessionID,
		Document:  doc,
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO canvas_snapshots (id, session_id, version, document)
		VALUES ($1, $2,
			COALESCE((SELECT MAX(version) FROM canvas_snapshots WHERE session_id = $2), 0) + 1,
			$3)
		RETURNING version, created_at`,
		snap.ID, sessionID, doc,
	).Scan(&snap.Version, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Latest(ctx context.Context, sessionID string) (*Snapshot, error) {
	snap := &Snapshot{SessionID: sessionID}
	err := s.pool.QueryRow(ctx, `
		SELECT id, version, document, created_at
		FROM canvas_snapshots
		WHERE session_id = $1
		ORDER BY version DESC
		LIMIT 1`,
		sessionID,
	).Scan(&snap.ID, &snap.Version, &snap.Document, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}
