package surface

import (
	"errors"
	"fmt"

	"github.com/inamate/sketchboard/internal/document"
)

var ErrUnknownBrush = errors.New("unknown brush")

const (
	BrushPencil = "Pencil"
	BrushCircle = "Circle"
)

// Point is a pointer sample in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Brush turns a captured pointer stroke into path commands.
type Brush struct {
	Name  string
	Color string
	Width float64

	build func(points []Point, width float64) ([]document.PathCommand, float64)
}

var brushes = map[string]func(points []Point, width float64) ([]document.PathCommand, float64){
	BrushPencil: pencilPath,
	BrushCircle: circlePath,
}

// NewBrush returns the brush registered under name.
func NewBrush(name string, color string, width float64) (*Brush, error) {
	build, ok := brushes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBrush, name)
	}
	return &Brush{Name: name, Color: color, Width: width, build: build}, nil
}

// Path converts points to path commands in surface coordinates and
// reports the stroke width the resulting path is drawn with.
func (b *Brush) Path(points []Point) ([]document.PathCommand, float64) {
	return b.build(points, b.Width)
}

// pencilPath smooths the samples with quadratic curves through midpoints.
func pencilPath(points []Point, width float64) ([]document.PathCommand, float64) {
	if len(points) == 0 {
		return nil, width
	}
	p0 := points[0]
	cmds := []document.PathCommand{{"M", p0.X, p0.Y}}
	if len(points) == 1 {
		return append(cmds, document.PathCommand{"L", p0.X, p0.Y}), width
	}
	for i := 1; i < len(points)-1; i++ {
		p, next := points[i], points[i+1]
		cmds = append(cmds, document.PathCommand{"Q", p.X, p.Y, (p.X + next.X) / 2, (p.Y + next.Y) / 2})
	}
	last := points[len(points)-1]
	return append(cmds, document.PathCommand{"L", last.X, last.Y}), width
}

// circlePath stamps a dot of diameter width at every sample.
func circlePath(points []Point, width float64) ([]document.PathCommand, float64) {
	r := width / 2
	var cmds []document.PathCommand
	for _, p := range points {
		cmds = append(cmds, ellipsePath(p.X, p.Y, r, r)...)
	}
	return cmds, 1
}
