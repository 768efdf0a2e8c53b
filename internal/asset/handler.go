package asset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/sketchboard/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

var ErrUnsupportedImage = errors.New("only PNG and JPEG images are supported")

// Asset describes a stored background image.
type Asset struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// BackgroundSetter applies an image URL as the background of a session.
type BackgroundSetter interface {
	SetBackground(ctx context.Context, sessionID, url string) error
}

// Handler stores uploaded images and serves them back.
type Handler struct {
	dir        string
	background BackgroundSetter
}

// NewHandler creates a handler that keeps files in dir.
func NewHandler(dir string, background BackgroundSetter) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir, background: background}
}

// Save decodes a PNG or JPEG image from r and stores it as PNG.
func (h *Handler) Save(r io.Reader, name string) (*Asset, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	id := typeid.NewAssetID()
	filename := id + ".png"
	path := filepath.Join(h.dir, filename)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create asset file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("encode png: %w", err)
	}

	bounds := img.Bounds()
	return &Asset{
		ID:     id,
		URL:    "/assets/" + filename,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Name:   name,
	}, nil
}

// UploadBackground handles POST /sessions/{sessionId}/background with a
// multipart "file" field. The stored image becomes the session background.
func (h *Handler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		http.Error(w, ErrUnsupportedImage.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("save asset", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	if err := h.background.SetBackground(r.Context(), sessionID, a.URL); err != nil {
		slog.Error("set background", "error", err, "session", sessionID)
		http.Error(w, "failed to set background", http.StatusInternalServerError)
		return
	}

	slog.Info("background uploaded", "session", sessionID, "asset", a.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(a)
}

// Serve returns an http.Handler for stored files. Asset ids are unique, so
// files are immutable.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}
