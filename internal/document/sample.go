package document

// NewSampleSnapshot returns a small scene with one shape of every variant.
// Hosts load it for demos and smoke tests.
func NewSampleSnapshot(width, height float64) *Snapshot {
	base := Style{Fill: "#e94560", Stroke: "#000000", StrokeWidth: 2, Opacity: 1}

	rect := NewRect(200, 200, base)
	rect.Rect.Width, rect.Rect.Height = 150, 100

	circle := NewCircle(500, 250, Style{Fill: "#0f3460", Stroke: "#ffffff", StrokeWidth: 3, Opacity: 0.8})
	circle.Circle.Radius = 60

	triangle := NewTriangle(800, 200, Style{Fill: "#16c79a", Stroke: "#000000", StrokeWidth: 2, Opacity: 1})
	triangle.Triangle.Width, triangle.Triangle.Height = 120, 100

	line := NewLine(200, 450, Style{Stroke: "#f5a623", StrokeWidth: 4, Opacity: 1})
	line.Line.X2, line.Line.Y2 = 300, 0

	text := NewTextBox(550, 450, Style{Stroke: "", StrokeWidth: 0, Opacity: 1}, "#ffffff")
	text.Text.Text = "Sketchboard\nsample scene"

	path := NewPath(900, 450, Style{Stroke: "#e94560", StrokeWidth: 3, Opacity: 1}, []PathCommand{
		{"M", 0.0, 40.0},
		{"Q", 20.0, 0.0, 40.0, 40.0},
		{"Q", 60.0, 80.0, 80.0, 40.0},
	})

	return &Snapshot{
		Version: SnapshotVersion,
		Width:   width,
		Height:  height,
		Objects: []*Shape{rect, circle, triangle, line, text, path},
	}
}
