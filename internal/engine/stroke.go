package engine

import (
	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/surface"
)

// Stroke widths stay visually constant under scaling by keeping the
// intended width in strokeWidthUnscaled and deriving strokeWidth from it
// at three points: while a scale gesture runs, when it ends, and when the
// width is edited explicitly.

// scaleStroke recomputes the live stroke width of a shape being scaled.
func scaleStroke(s *document.Shape) {
	if s.Style.StrokeWidthUnscaled == nil {
		s.Style.SetStrokeWidthUnscaled(s.Style.StrokeWidth)
	}
	if avg := s.Transform.AverageScale(); avg != 0 {
		s.Style.StrokeWidth = *s.Style.StrokeWidthUnscaled / avg
	}
	s.Dirty = true
}

// Flatten bakes a rectangle's scale into its width and height and resets
// scale and zoom to identity. With width non-nil the stroke is set to it;
// otherwise the stroke returns to strokeWidthUnscaled when one is set
// (zero included) and is left alone when none is. Flattening twice in a
// row is a no-op the second time.
func Flatten(s *document.Shape, width *float64) {
	if s.Type != document.ShapeRectangle || s.Rect == nil {
		return
	}
	s.Rect.Width *= s.Transform.ScaleX
	s.Rect.Height *= s.Transform.ScaleY
	s.Transform.ScaleX, s.Transform.ScaleY = 1, 1
	s.Transform.ZoomX, s.Transform.ZoomY = 1, 1

	switch {
	case width != nil:
		s.Style.SetStrokeWidthUnscaled(*width)
		s.Style.StrokeWidth = *width
	case s.Style.StrokeWidthUnscaled != nil:
		s.Style.StrokeWidth = *s.Style.StrokeWidthUnscaled
	}
	s.Dirty = true
}

// setStrokeWidth applies an explicit stroke width so that it renders at
// width immediately, whatever the shape's current scale.
func setStrokeWidth(s *document.Shape, width float64) {
	if s.Type == document.ShapeRectangle {
		Flatten(s, &width)
		return
	}
	s.Style.SetStrokeWidthUnscaled(width)
	s.Style.StrokeWidth = width
	if avg := s.Transform.AverageScale(); avg != 0 {
		s.Style.StrokeWidth = width / avg
	}
	s.Dirty = true
}

// handleObjectScaling runs on every step of an interactive resize.
func (e *Editor) handleObjectScaling(s *document.Shape) {
	if e.mode != StrokeModeScaleInvariant {
		return
	}
	scaleStroke(s)
}

// handleObjectModified runs when a gesture ends. Rectangles never keep a
// scale once a resize is over; other shapes keep theirs together with the
// stroke width computed during the gesture. In uniform mode no unscaled
// width is tracked, so flattening leaves the stroke as is.
func (e *Editor) handleObjectModified(s *document.Shape, action surface.Action) {
	if action != surface.ActionScale {
		return
	}
	Flatten(s, nil)
}
