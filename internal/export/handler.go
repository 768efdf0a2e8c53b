package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

const maxUploadSize = 5 << 20 // 5MB

// Source gives the handler access to the scene of a session.
type Source interface {
	ExportSVG(ctx context.Context, sessionID string) (string, error)
	ImportSVG(ctx context.Context, sessionID, data string) (int, error)
}

type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// ExportSVG handles GET /sessions/{sessionId}/export.svg.
func (h *Handler) ExportSVG(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "drawing"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	out, err := h.source.ExportSVG(r.Context(), sessionID)
	if err != nil {
		slog.Error("export svg failed", "session", sessionID, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	io.WriteString(w, out)

	slog.Info("export complete", "session", sessionID, "size", len(out))
}

// ImportSVG handles POST /sessions/{sessionId}/import.svg with the SVG
// markup as the request body. Imported shapes are appended to the scene.
func (h *Handler) ImportSVG(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}

	n, err := h.source.ImportSVG(r.Context(), sessionID, string(data))
	if err != nil {
		slog.Warn("import svg failed", "session", sessionID, "error", err)
		http.Error(w, fmt.Sprintf("import failed: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"objectCount":%d}`, n)
}
