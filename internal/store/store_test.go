package store

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshotStore(t *testing.T, s SnapshotStore, sessionID string) {
	ctx := context.Background()

	_, err := s.Latest(ctx, sessionID)
	require.ErrorIs(t, err, ErrNotFound)

	first, err := s.Save(ctx, sessionID, []byte(`{"objects":[]}`))
	require.NoError(t, err)
	assert.Equal(t, int32(1), first.Version)
	assert.True(t, strings.HasPrefix(first.ID, "snap_"))

	second, err := s.Save(ctx, sessionID, []byte(`{"objects":[{}]}`))
	require.NoError(t, err)
	assert.Equal(t, int32(2), second.Version)

	latest, err := s.Latest(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.JSONEq(t, `{"objects":[{}]}`, string(latest.Document))
}

func TestMemoryStore(t *testing.T) {
	testSnapshotStore(t, NewMemoryStore(), "sess_memory")
}

func TestMemoryStoreCopiesDocument(t *testing.T) {
	s := NewMemoryStore()
	doc := []byte(`{"a":1}`)
	_, err := s.Save(context.Background(), "sess_a", doc)
	require.NoError(t, err)

	doc[2] = 'b'
	latest, err := s.Latest(context.Background(), "sess_a")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(latest.Document))
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	s := NewPostgresStore(pool)
	require.NoError(t, s.Migrate(ctx))

	sessionID := "sess_" + strings.ReplaceAll(t.Name(), "/", "_")
	_, err = pool.Exec(ctx, `DELETE FROM canvas_snapshots WHERE session_id = $1`, sessionID)
	require.NoError(t, err)

	testSnapshotStore(t, s, sessionID)
}
