// Package session hosts editor sessions behind websocket clients. Each
// session runs one goroutine that owns its editor; every operation on the
// editor is posted to that goroutine.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/surface"
)

var (
	ErrSessionClosed   = errors.New("session closed")
	ErrSessionNotFound = errors.New("session not found")
)

type Session struct {
	ID string

	editor  *engine.Editor
	surface *surface.Surface

	ops        chan func()
	done       chan struct{}
	closeOnce  sync.Once
	lastActive atomic.Int64

	mu        sync.RWMutex
	clients   map[string]*Client
	lastFrame []byte
	seq       int64
}

func newSession(id string, width, height float64, opts engine.Options) *Session {
	s := &Session{
		ID:      id,
		ops:     make(chan func()),
		done:    make(chan struct{}),
		clients: make(map[string]*Client),
	}

	listener := engine.ListenerFuncs{
		OnSelectionCreated: func() { s.broadcastSelection(TypeSelectionCreated) },
		OnSelectionCleared: func() { s.broadcastSelection(TypeSelectionCleared) },
		OnSelectionUpdated: func() { s.broadcastSelection(TypeSelectionUpdated) },
	}
	s.editor, s.surface = engine.NewWithSurface(width, height, listener, opts)
	s.surface.SetPresenter(s)
	s.touch()

	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case op := <-s.ops:
			op()
			s.surface.Flush()
		case <-s.done:
			return
		}
	}
}

// Do runs fn on the session goroutine and waits for it. A render requested
// by fn is flushed before the next operation runs.
func (s *Session) Do(ctx context.Context, fn func(ed *engine.Editor) error) error {
	return s.exec(ctx, func() error { return fn(s.editor) })
}

func (s *Session) exec(ctx context.Context, fn func() error) error {
	s.touch()
	reply := make(chan error, 1)
	op := func() { reply <- fn() }

	select {
	case s.ops <- op:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session goroutine. Pending and later calls fail with
// ErrSessionClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// idleSince reports whether the session has no clients and ran no
// operation after t.
func (s *Session) idleSince(t time.Time) bool {
	return s.ClientCount() == 0 && s.lastActive.Load() < t.UnixNano()
}

// Present implements surface.Presenter by pushing each frame to every
// connected client.
func (s *Session) Present(frame surface.Frame) {
	data, ok := s.encode(TypeRenderFrame, frame)
	if !ok {
		return
	}
	s.mu.Lock()
	s.lastFrame = data
	s.mu.Unlock()
	s.broadcast(data)
}

func (s *Session) broadcastSelection(msgType string) {
	active := s.surface.ActiveObjects()
	ids := make([]string, 0, len(active))
	for _, shape := range active {
		ids = append(ids, shape.ID)
	}
	if data, ok := s.encode(msgType, SelectionPayload{ObjectIDs: ids}); ok {
		s.broadcast(data)
	}
}

func (s *Session) encode(msgType string, payload any) ([]byte, bool) {
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal payload", "error", err, "type", msgType)
		return nil, false
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	data, err := json.Marshal(&Message{
		Type:      msgType,
		SessionID: s.ID,
		Seq:       seq,
		Payload:   raw,
	})
	if err != nil {
		slog.Error("marshal message", "error", err, "type", msgType)
		return nil, false
	}
	return data, true
}

// broadcast queues data on every client. Sends never block, so holding the
// read lock keeps a client's channel open for the duration.
func (s *Session) broadcast(data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		c.queue(data)
	}
}

func (s *Session) addClient(c *Client) {
	s.mu.Lock()
	s.clients[c.ClientID] = c
	frame := s.lastFrame
	s.mu.Unlock()

	if data, ok := s.encode(TypeWelcome, WelcomePayload{SessionID: s.ID, ClientID: c.ClientID}); ok {
		c.queue(data)
	}
	if frame != nil {
		c.queue(frame)
	}
}

// removeClient drops c and reports whether it was connected and whether
// the session is now empty.
func (s *Session) removeClient(c *Client) (removed, empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ClientID]; !ok {
		return false, len(s.clients) == 0
	}
	delete(s.clients, c.ClientID)
	close(c.send)
	return true, len(s.clients) == 0
}

// ClientCount returns the number of connected clients.
func (s *Session) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Snapshot returns the session's structural snapshot.
func (s *Session) Snapshot(ctx context.Context) (string, error) {
	var out string
	err := s.Do(ctx, func(ed *engine.Editor) error {
		var err error
		out, err = ed.ToJSON()
		return err
	})
	return out, err
}
