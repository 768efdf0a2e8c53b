package document

import (
	"github.com/inamate/sketchboard/internal/typeid"
)

// Intrinsic defaults for newly created shapes.
const (
	DefaultLineLength     = 50
	DefaultCircleRadius   = 25
	DefaultRectSize       = 50
	DefaultTriangleSize   = 50
	DefaultTextWidth      = 150
	DefaultFontSize       = 20
	DefaultFontFamily     = "sans-serif"
	DefaultPlaceholder    = "Double-click\nto edit"
	TextLineHeight        = 1.16
	defaultTransformScale = 1
)

func newShape(t ShapeType, left, top float64, style Style) *Shape {
	return &Shape{
		ID:   typeid.NewObjectID(),
		Type: t,
		Transform: Transform{
			Left:   left,
			Top:    top,
			ScaleX: defaultTransformScale,
			ScaleY: defaultTransformScale,
			ZoomX:  defaultTransformScale,
			ZoomY:  defaultTransformScale,
		},
		Style: style,
	}
}

// NewLine creates a diagonal line. Lines never carry a fill.
func NewLine(left, top float64, style Style) *Shape {
	style.Fill = ""
	s := newShape(ShapeLine, left, top, style)
	s.Line = &LineData{X1: 0, Y1: 0, X2: DefaultLineLength, Y2: DefaultLineLength}
	return s
}

func NewCircle(left, top float64, style Style) *Shape {
	s := newShape(ShapeCircle, left, top, style)
	s.Circle = &CircleData{Radius: DefaultCircleRadius}
	return s
}

func NewRect(left, top float64, style Style) *Shape {
	s := newShape(ShapeRectangle, left, top, style)
	s.Rect = &RectData{Width: DefaultRectSize, Height: DefaultRectSize}
	return s
}

func NewTriangle(left, top float64, style Style) *Shape {
	s := newShape(ShapeTriangle, left, top, style)
	s.Triangle = &TriangleData{Width: DefaultTriangleSize, Height: DefaultTriangleSize}
	return s
}

// NewTextBox creates a text box with placeholder text. textFill colors the
// glyphs; style.Fill paints the box background.
func NewTextBox(left, top float64, style Style, textFill string) *Shape {
	s := newShape(ShapeTextBox, left, top, style)
	s.Text = &TextData{
		Text:       DefaultPlaceholder,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		Width:      DefaultTextWidth,
		Fill:       textFill,
	}
	return s
}

// NewPath creates a freehand path. Paths are stroke-only.
func NewPath(left, top float64, style Style, commands []PathCommand) *Shape {
	style.Fill = ""
	s := newShape(ShapePath, left, top, style)
	s.Path = &PathData{Commands: commands}
	return s
}

// Normalize fills in zero-valued transform fields left out by external
// producers (snapshots written by hand, imported fragments).
func (s *Shape) Normalize() {
	if s.ID == "" {
		s.ID = typeid.NewObjectID()
	}
	if s.Transform.ScaleX == 0 && s.Transform.ScaleY == 0 {
		s.Transform.ScaleX, s.Transform.ScaleY = 1, 1
	}
	if s.Transform.ZoomX == 0 {
		s.Transform.ZoomX = 1
	}
	if s.Transform.ZoomY == 0 {
		s.Transform.ZoomY = 1
	}
}
