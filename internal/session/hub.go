package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/store"
	"github.com/inamate/sketchboard/internal/typeid"
)

const (
	defaultIdleTimeout = 30 * time.Minute
	retireTimeout      = 10 * time.Second
)

// Config holds the settings every new session starts with.
type Config struct {
	Width  float64
	Height float64
	Editor engine.Options

	// IdleTimeout is how long a session without clients is kept after its
	// last operation. Zero means 30 minutes.
	IdleTimeout time.Duration
}

type Hub struct {
	cfg   Config
	store store.SnapshotStore

	mu       sync.RWMutex
	sessions map[string]*Session

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopped    chan struct{}
}

// NewHub creates a hub. snapshots may be nil, in which case sessions live
// only in memory.
func NewHub(cfg Config, snapshots store.SnapshotStore) *Hub {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	return &Hub{
		cfg:        cfg,
		store:      snapshots,
		sessions:   make(map[string]*Session),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)

	reap := time.NewTicker(h.cfg.IdleTimeout / 2)
	defer reap.Stop()

	for {
		select {
		case client := <-h.register:
			if !h.live(client.session) {
				// The session was retired between lookup and register; the
				// client reconnects and gets the restored session.
				close(client.send)
				slog.Info("client rejected, session retired", "client", client.ClientID, "session", client.session.ID)
				continue
			}
			client.session.addClient(client)
			slog.Info("client joined", "client", client.ClientID, "session", client.session.ID)
		case client := <-h.unregister:
			removed, empty := client.session.removeClient(client)
			if removed {
				slog.Info("client left", "client", client.ClientID, "session", client.session.ID)
				if empty {
					h.retire(client.session)
				}
			}
		case now := <-reap.C:
			h.reapIdle(now)
		case <-h.stop:
			return
		}
	}
}

func (h *Hub) live(s *Session) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[s.ID] == s
}

// retire persists an empty session, closes it and drops it from the hub.
// Get restores it from the store on the next request. The hub lock is held
// throughout so a concurrent Get waits for the save.
func (h *Hub) retire(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[s.ID] != s || s.ClientCount() > 0 {
		return
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), retireTimeout)
		_, err := h.save(ctx, s)
		cancel()
		if err != nil {
			slog.Error("save retired session", "error", err, "session", s.ID)
		}
	}
	delete(h.sessions, s.ID)
	s.Close()
	slog.Info("session retired", "session", s.ID)
}

// reapIdle retires sessions without clients whose last operation is older
// than the idle timeout.
func (h *Hub) reapIdle(now time.Time) {
	cutoff := now.Add(-h.cfg.IdleTimeout)

	h.mu.RLock()
	var idle []*Session
	for _, s := range h.sessions {
		if s.idleSince(cutoff) {
			idle = append(idle, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range idle {
		h.retire(s)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Stop persists every session, then closes them.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped

	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, s := range sessions {
		if h.store != nil {
			if _, err := h.Save(context.Background(), s); err != nil {
				slog.Error("save session on shutdown", "error", err, "session", s.ID)
			}
		}
		s.Close()
	}
}

// Create starts a new empty session.
func (h *Hub) Create() *Session {
	s := newSession(typeid.NewSessionID(), h.cfg.Width, h.cfg.Height, h.cfg.Editor)

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	slog.Info("session created", "session", s.ID)
	return s
}

// Get returns a running session. A session that is not running but has a
// persisted snapshot is restored from it.
func (h *Hub) Get(ctx context.Context, id string) (*Session, error) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		return s, nil
	}

	if h.store == nil || typeid.Validate(id, typeid.PrefixSession) != nil {
		return nil, ErrSessionNotFound
	}

	snap, err := h.store.Latest(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[id]; ok {
		return s, nil
	}

	s = newSession(id, h.cfg.Width, h.cfg.Height, h.cfg.Editor)
	err = s.Do(ctx, func(ed *engine.Editor) error {
		return ed.LoadJSON(string(snap.Document))
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	h.sessions[id] = s

	slog.Info("session restored", "session", id, "version", snap.Version)
	return s, nil
}

// Save persists the current snapshot of s.
func (h *Hub) Save(ctx context.Context, s *Session) (*store.Snapshot, error) {
	if h.store == nil {
		return nil, errors.New("no snapshot store configured")
	}
	return h.save(ctx, s)
}

func (h *Hub) save(ctx context.Context, s *Session) (*store.Snapshot, error) {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot session: %w", err)
	}
	snap, err := h.store.Save(ctx, s.ID, []byte(doc))
	if err != nil {
		return nil, err
	}
	slog.Info("session saved", "session", s.ID, "version", snap.Version)
	return snap, nil
}

// ExportSVG renders the session's scene as an SVG document.
func (h *Hub) ExportSVG(ctx context.Context, id string) (string, error) {
	s, err := h.Get(ctx, id)
	if err != nil {
		return "", err
	}
	var out string
	err = s.Do(ctx, func(ed *engine.Editor) error {
		var err error
		out, err = ed.ToSVG()
		return err
	})
	return out, err
}

// ImportSVG appends the shapes of an SVG document to the session's scene.
func (h *Hub) ImportSVG(ctx context.Context, id, data string) (int, error) {
	s, err := h.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.Do(ctx, func(ed *engine.Editor) error {
		var err error
		n, err = ed.LoadSVG(data)
		return err
	})
	return n, err
}

// SetBackground sets the background image of a session.
func (h *Hub) SetBackground(ctx context.Context, id, url string) error {
	s, err := h.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Do(ctx, func(ed *engine.Editor) error {
		ed.SetBackgroundImage(url)
		return nil
	})
}
