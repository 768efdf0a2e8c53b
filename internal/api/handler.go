// Package api exposes editor sessions over HTTP and websockets.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/sketchboard/internal/asset"
	"github.com/inamate/sketchboard/internal/auth"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/export"
	"github.com/inamate/sketchboard/internal/session"
	"github.com/inamate/sketchboard/internal/store"
)

const maxSnapshotSize = 10 << 20 // 10MB

type Handler struct {
	hub       *session.Hub
	auth      *auth.Service
	snapshots store.SnapshotStore
	export    *export.Handler
	assets    *asset.Handler

	// OriginPatterns are the hosts allowed to open a websocket.
	OriginPatterns []string
}

func NewHandler(hub *session.Hub, authService *auth.Service, snapshots store.SnapshotStore, assetDir string) *Handler {
	return &Handler{
		hub:       hub,
		auth:      authService,
		snapshots: snapshots,
		export:    export.NewHandler(hub),
		assets:    asset.NewHandler(assetDir, hub),
	}
}

// Register mounts the session routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/sessions", h.Create).Methods("POST")

	s := r.PathPrefix("/sessions/{sessionId}").Subrouter()
	s.Use(h.auth.SessionMiddleware)
	s.Use(h.requireSession)

	s.HandleFunc("/snapshot", h.GetSnapshot).Methods("GET")
	s.HandleFunc("/snapshot", h.PutSnapshot).Methods("PUT")
	s.HandleFunc("/snapshots", h.SaveSnapshot).Methods("POST")
	s.HandleFunc("/snapshots/latest", h.GetLatestSnapshot).Methods("GET")
	s.HandleFunc("/call", h.Call).Methods("POST")
	s.HandleFunc("/export.svg", h.export.ExportSVG).Methods("GET")
	s.HandleFunc("/import.svg", h.export.ImportSVG).Methods("POST")
	s.HandleFunc("/background", h.assets.UploadBackground).Methods("POST")

	r.PathPrefix("/assets/").Handler(h.assets.Serve()).Methods("GET")

	r.HandleFunc("/ws/session/{sessionId}", h.WebSocket)
}

type createResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.hub.Create()

	token, err := h.auth.IssueToken(sess.ID)
	if err != nil {
		slog.Error("issue session token", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{SessionID: sess.ID, Token: token})
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	doc, err := sess.Snapshot(r.Context())
	if err != nil {
		handleSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc)
}

func (h *Handler) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxSnapshotSize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request too large"})
		return
	}

	var count int
	err = sess.Do(r.Context(), func(ed *engine.Editor) error {
		if err := ed.LoadJSON(string(data)); err != nil {
			return err
		}
		count = ed.CountObjects()
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionClosed) {
			handleSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"objectCount": count})
}

func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.hub.Save(r.Context(), sessionFrom(r))
	if err != nil {
		handleSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if h.snapshots == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	snap, err := h.snapshots.Latest(r.Context(), sessionID)
	if err != nil {
		handleSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Document)
}

// Call invokes one editor operation by name.
func (h *Handler) Call(w http.ResponseWriter, r *http.Request) {
	var req session.CallPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := sessionFrom(r).Call(r.Context(), req.Method, req.Args)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnknownMethod):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, session.ErrSessionClosed):
			handleSessionError(w, err)
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, session.ResultPayload{Method: req.Method, Result: result})
}

// WebSocket attaches a client to a session. The session token travels in
// the token query parameter since browsers cannot set headers on upgrade.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	tokenSession, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if tokenSession != sessionID {
		http.Error(w, "token not valid for this session", http.StatusForbidden)
		return
	}

	sess, err := h.hub.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.OriginPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := session.NewClient(h.hub, sess, conn, uuid.New().String())
	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
