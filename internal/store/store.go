// Package store persists structural snapshots of editor sessions.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inamate/sketchboard/internal/typeid"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved structural snapshot of a session's scene.
type Snapshot struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Version   int32     `json:"version"`
	Document  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type SnapshotStore interface {
	// Save stores doc as the next version for sessionID.
	Save(ctx context.Context, sessionID string, doc []byte) (*Snapshot, error)
	// Latest returns the newest snapshot of sessionID.
	Latest(ctx context.Context, sessionID string) (*Snapshot, error)
}

// MemoryStore keeps snapshots in process memory. It is used when no
// database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]*Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]*Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, doc []byte) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.snapshots[sessionID]
	snap := &Snapshot{
		ID:        typeid.NewSnapshotID(),
		SessionID: sessionID,
		Version:   int32(len(history) + 1),
		Document:  append([]byte(nil), doc...),
		CreatedAt: time.Now().UTC(),
	}
	m.snapshots[sessionID] = append(history, snap)
	return snap, nil
}

func (m *MemoryStore) Latest(_ context.Context, sessionID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.snapshots[sessionID]
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	return history[len(history)-1], nil
}
