package document

type ShapeType string

const (
	ShapeLine      ShapeType = "Line"
	ShapeCircle    ShapeType = "Circle"
	ShapeRectangle ShapeType = "Rectangle"
	ShapeTriangle  ShapeType = "Triangle"
	ShapeTextBox   ShapeType = "TextBox"
	ShapePath      ShapeType = "Path"
)

// Transform places a shape on the surface. Left/Top is the top-left anchor,
// scale is applied to the intrinsic geometry at render time.
type Transform struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Angle  float64 `json:"angle"`
	ZoomX  float64 `json:"zoomX"`
	ZoomY  float64 `json:"zoomY"`
}

// Style is the paint state of a shape. StrokeWidth is the rendered width;
// StrokeWidthUnscaled is the user-intended width and is nil until captured.
type Style struct {
	Fill                string   `json:"fill"`
	Stroke              string   `json:"stroke"`
	StrokeWidth         float64  `json:"strokeWidth"`
	StrokeWidthUnscaled *float64 `json:"strokeWidthUnscaled,omitempty"`
	Opacity             float64  `json:"opacity"`
}

type LineData struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type CircleData struct {
	Radius float64 `json:"radius"`
}

type RectData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type TriangleData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextData carries the text box content. Fill is the glyph color and is
// independent of the shape fill, which paints the box background.
type TextData struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Width      float64 `json:"width"`
	Fill       string  `json:"fill"`
}

type PathData struct {
	Commands []PathCommand `json:"commands"`
}

// PathCommand is a single path segment in Canvas2D order:
// ["M", x, y], ["L", x, y], ["Q", x1, y1, x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// Shape is one editable primitive. Exactly one geometry block matches Type.
type Shape struct {
	ID        string    `json:"id"`
	Type      ShapeType `json:"type"`
	Transform Transform `json:"transform"`
	Style     Style     `json:"style"`

	Line     *LineData     `json:"line,omitempty"`
	Circle   *CircleData   `json:"circle,omitempty"`
	Rect     *RectData     `json:"rect,omitempty"`
	Triangle *TriangleData `json:"triangle,omitempty"`
	Text     *TextData     `json:"text,omitempty"`
	Path     *PathData     `json:"path,omitempty"`

	// Dirty invalidates the surface render cache for this shape.
	Dirty bool `json:"-"`
}

// Snapshot is the structural serialization of a scene.
type Snapshot struct {
	Version         int      `json:"version"`
	Width           float64  `json:"width"`
	Height          float64  `json:"height"`
	BackgroundImage string   `json:"backgroundImage,omitempty"`
	Objects         []*Shape `json:"objects"`
}

const SnapshotVersion = 1

// AverageScale is (ScaleX + ScaleY) / 2.
func (t Transform) AverageScale() float64 {
	return (t.ScaleX + t.ScaleY) / 2
}

// IsIdentityScale reports whether the shape carries no pending scale.
func (t Transform) IsIdentityScale() bool {
	return t.ScaleX == 1 && t.ScaleY == 1
}

// SetStrokeWidthUnscaled stores w as the intended stroke width.
func (s *Style) SetStrokeWidthUnscaled(w float64) {
	s.StrokeWidthUnscaled = &w
}

// Size returns the intrinsic (pre-scale) size of the shape.
func (s *Shape) Size() (float64, float64) {
	switch s.Type {
	case ShapeLine:
		if s.Line != nil {
			return abs(s.Line.X2 - s.Line.X1), abs(s.Line.Y2 - s.Line.Y1)
		}
	case ShapeCircle:
		if s.Circle != nil {
			return 2 * s.Circle.Radius, 2 * s.Circle.Radius
		}
	case ShapeRectangle:
		if s.Rect != nil {
			return s.Rect.Width, s.Rect.Height
		}
	case ShapeTriangle:
		if s.Triangle != nil {
			return s.Triangle.Width, s.Triangle.Height
		}
	case ShapeTextBox:
		if s.Text != nil {
			lines := 1
			for _, r := range s.Text.Text {
				if r == '\n' {
					lines++
				}
			}
			return s.Text.Width, float64(lines) * s.Text.FontSize * TextLineHeight
		}
	case ShapePath:
		if s.Path != nil {
			b := PathBounds(s.Path.Commands)
			return b.MaxX, b.MaxY
		}
	}
	return 0, 0
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	if s.Style.StrokeWidthUnscaled != nil {
		w := *s.Style.StrokeWidthUnscaled
		c.Style.StrokeWidthUnscaled = &w
	}
	if s.Line != nil {
		l := *s.Line
		c.Line = &l
	}
	if s.Circle != nil {
		ci := *s.Circle
		c.Circle = &ci
	}
	if s.Rect != nil {
		r := *s.Rect
		c.Rect = &r
	}
	if s.Triangle != nil {
		t := *s.Triangle
		c.Triangle = &t
	}
	if s.Text != nil {
		t := *s.Text
		c.Text = &t
	}
	if s.Path != nil {
		cmds := make([]PathCommand, len(s.Path.Commands))
		for i, cmd := range s.Path.Commands {
			cmds[i] = append(PathCommand(nil), cmd...)
		}
		c.Path = &PathData{Commands: cmds}
	}
	return &c
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
