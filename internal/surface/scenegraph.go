package surface

import "github.com/inamate/sketchboard/internal/document"

// RenderNode is a shape resolved for drawing: world transform, local path
// and world-space bounds. Nodes are cached between frames per shape.
type RenderNode struct {
	Shape     *document.Shape
	Transform document.Transform // transform the node was built from
	World     Matrix2D

	Path        []document.PathCommand
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64

	// Text boxes only.
	Text *document.TextData

	Local  Rect // local geometry extent, used for precise hit tests
	Bounds Rect // axis-aligned bounding box in surface space
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether the rects overlap. Degenerate rects (a
// horizontal line has zero height) still intersect when they touch.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.X+r.Width, other.X+other.Width)
	maxY := max(r.Y+r.Height, other.Y+other.Height)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
