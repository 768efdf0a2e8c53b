package surface

import (
	"github.com/inamate/sketchboard/internal/document"
)

// buildNode resolves a shape into a render node. With strokeUniform the
// rendered stroke is divided by the average scale so borders keep their
// nominal width under any scale.
func buildNode(s *document.Shape, strokeUniform bool) *RenderNode {
	t := s.Transform
	world := ShapeMatrix(t.Left, t.Top, t.ScaleX, t.ScaleY, t.Angle)

	node := &RenderNode{
		Shape:       s,
		Transform:   t,
		World:       world,
		Fill:        s.Style.Fill,
		Stroke:      s.Style.Stroke,
		StrokeWidth: s.Style.StrokeWidth,
		Opacity:     s.Style.Opacity,
	}
	if strokeUniform {
		if avg := t.AverageScale(); avg != 0 {
			node.StrokeWidth = s.Style.StrokeWidth / avg
		}
	}

	switch s.Type {
	case document.ShapeRectangle:
		if s.Rect != nil {
			node.Path = rectPath(s.Rect.Width, s.Rect.Height)
		}
	case document.ShapeTriangle:
		if s.Triangle != nil {
			node.Path = trianglePath(s.Triangle.Width, s.Triangle.Height)
		}
	case document.ShapeCircle:
		if s.Circle != nil {
			node.Path = ellipsePath(s.Circle.Radius, s.Circle.Radius, s.Circle.Radius, s.Circle.Radius)
		}
	case document.ShapeLine:
		if s.Line != nil {
			node.Fill = ""
			node.Path = []document.PathCommand{
				{"M", s.Line.X1, s.Line.Y1},
				{"L", s.Line.X2, s.Line.Y2},
			}
		}
	case document.ShapePath:
		if s.Path != nil {
			node.Fill = ""
			node.Path = s.Path.Commands
		}
	case document.ShapeTextBox:
		if s.Text != nil {
			text := *s.Text
			node.Text = &text
			w, h := s.Size()
			// The background box is painted only when the shape has a fill.
			if s.Style.Fill != "" {
				node.Path = rectPath(w, h)
			}
			node.Local = Rect{Width: w, Height: h}
		}
	}

	if node.Text == nil {
		b := document.PathBounds(node.Path)
		if !b.Empty() {
			node.Local = Rect{X: b.MinX, Y: b.MinY, Width: b.MaxX - b.MinX, Height: b.MaxY - b.MinY}
		}
	}
	node.Bounds = world.TransformRect(node.Local)
	return node
}

func rectPath(w, h float64) []document.PathCommand {
	return []document.PathCommand{
		{"M", 0.0, 0.0},
		{"L", w, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

// trianglePath is an isosceles triangle with its apex at the top center.
func trianglePath(w, h float64) []document.PathCommand {
	return []document.PathCommand{
		{"M", w / 2, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

// ellipsePath approximates an ellipse centered at (cx, cy) with four cubic curves.
func ellipsePath(cx, cy, rx, ry float64) []document.PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	const k = 0.5522847498
	kx, ky := rx*k, ry*k

	return []document.PathCommand{
		{"M", cx + rx, cy},
		{"C", cx + rx, cy + ky, cx + kx, cy + ry, cx, cy + ry},
		{"C", cx - kx, cy + ry, cx - rx, cy + ky, cx - rx, cy},
		{"C", cx - rx, cy - ky, cx - kx, cy - ry, cx, cy - ry},
		{"C", cx + kx, cy - ry, cx + rx, cy - ky, cx + rx, cy},
		{"Z"},
	}
}
