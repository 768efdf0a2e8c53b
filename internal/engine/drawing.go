package engine

import (
	"log/slog"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/surface"
)

// EnableDrawingMode switches freehand capture on or off. Drawing and
// selecting are exclusive, so turning it on drops the selection first.
func (e *Editor) EnableDrawingMode(on bool) {
	if on {
		e.DeactivateAll()
	}
	e.surface.SetDrawingMode(on)
}

// IsDrawingMode reports whether freehand capture is on.
func (e *Editor) IsDrawingMode() bool {
	return e.surface.DrawingMode()
}

// SetFreeDrawingBrush selects the brush registered under name. An empty
// color uses the pen stroke.
func (e *Editor) SetFreeDrawingBrush(name, color string, width float64) error {
	if color == "" {
		color = e.pen.Stroke
	}
	brush, err := surface.NewBrush(name, color, width)
	if err != nil {
		return err
	}
	e.surface.SetBrush(brush)
	return nil
}

func (e *Editor) SetBrushColor(color string) {
	if b := e.surface.Brush(); b != nil {
		b.Color = color
	}
}

func (e *Editor) SetBrushWidth(width float64) {
	if b := e.surface.Brush(); b != nil {
		b.Width = width
	}
}

// handlePathCreated patches the pen opacity onto a finished stroke. The
// new path is taken to be the last shape in the scene; the event's own
// path reference is only used to report when that assumption breaks.
func (e *Editor) handlePathCreated(created *document.Shape) {
	path := e.scene.Last()
	if path == nil {
		return
	}
	if created != nil && created != path {
		slog.Warn("path:created does not match last scene object", "created", created.ID, "last", path.ID)
	}
	path.Style.Opacity = e.pen.Opacity
	path.Dirty = true

	// The surface only picks up the patched style on a full render made
	// outside drawing mode.
	e.surface.SetDrawingMode(false)
	e.surface.RenderAll()
	e.surface.SetDrawingMode(true)
}
