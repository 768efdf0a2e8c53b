// Package engine is the canvas editor: it owns the scene, the current pen
// and the placement cursor, and layers shape creation, stroke
// normalization, selection-scoped styling, freehand drawing and
// serialization on top of a drawing surface.
package engine

import (
	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/surface"
)

// Surface is the rendering surface the editor drives. *surface.Surface
// implements it.
type Surface interface {
	Width() float64
	Height() float64
	SetWidth(w float64)
	SetHeight(h float64)
	SetBackgroundImage(url string)
	BackgroundImage() string
	SetStrokeUniform(on bool)

	SetDrawingMode(on bool)
	DrawingMode() bool
	SetBrush(b *surface.Brush)
	Brush() *surface.Brush

	ActiveObjects() []*document.Shape
	SetActiveObject(shape *document.Shape)
	DiscardActiveObject()

	RenderAll()
	RequestRenderAll()
	On(h surface.Handlers)
}

// StrokeMode selects how stroke widths are kept stable under scaling. The
// two strategies are mutually exclusive.
type StrokeMode string

const (
	// StrokeModeScaleInvariant recomputes each shape's strokeWidth from its
	// strokeWidthUnscaled on every scale change.
	StrokeModeScaleInvariant StrokeMode = "scale-invariant"
	// StrokeModeUniform leaves strokeWidth literal and lets the surface
	// compensate at render time.
	StrokeModeUniform StrokeMode = "uniform"
)

type Options struct {
	Pen        Pen
	Placement  Cursor
	StrokeMode StrokeMode
}

// DefaultOptions returns the pen and cursor defaults.
func DefaultOptions() Options {
	return Options{
		Pen:        DefaultPen(),
		Placement:  NewCursor(DefaultPlacementStart, DefaultPlacementStart, DefaultPlacementIncrement, DefaultPlacementMargin),
		StrokeMode: StrokeModeScaleInvariant,
	}
}

// Editor is one canvas editing session. It is not safe for concurrent use:
// all calls must come from the single goroutine that owns it.
type Editor struct {
	scene    *document.Scene
	surface  Surface
	listener Listener

	pen    *Pen
	cursor Cursor
	mode   StrokeMode
}

// New creates an editor over scene rendered by surf. A nil listener is
// replaced with a no-op.
func New(scene *document.Scene, surf Surface, listener Listener, opts Options) *Editor {
	if listener == nil {
		listener = NopListener{}
	}
	if opts.StrokeMode == "" {
		opts.StrokeMode = StrokeModeScaleInvariant
	}
	pen := opts.Pen
	e := &Editor{
		scene:    scene,
		surface:  surf,
		listener: listener,
		pen:      &pen,
		cursor:   opts.Placement,
		mode:     opts.StrokeMode,
	}
	surf.SetStrokeUniform(e.mode == StrokeModeUniform)
	surf.On(surface.Handlers{
		AfterRender:      e.listener.AfterRender,
		SelectionCreated: e.listener.SelectionCreated,
		SelectionCleared: e.listener.SelectionCleared,
		SelectionUpdated: e.listener.SelectionUpdated,
		PathCreated:      e.handlePathCreated,
		ObjectScaling:    e.handleObjectScaling,
		ObjectModified:   e.handleObjectModified,
	})
	return e
}

// NewWithSurface creates a scene and a surface sized w×h and binds an
// editor to them.
func NewWithSurface(w, h float64, listener Listener, opts Options) (*Editor, *surface.Surface) {
	scene := document.NewScene()
	so := surface.DefaultOptions()
	so.Width, so.Height = w, h
	surf := surface.New(scene, so)
	return New(scene, surf, listener, opts), surf
}

// Pen returns the editor's current style defaults.
func (e *Editor) Pen() *Pen { return e.pen }

// Scene returns the editor's scene.
func (e *Editor) Scene() *document.Scene { return e.scene }

// StrokeMode returns the active stroke strategy.
func (e *Editor) StrokeMode() StrokeMode { return e.mode }

// --- Shape creation ---

func (e *Editor) AddLine() *document.Shape {
	left, top := e.nextPosition()
	return e.add(document.NewLine(left, top, e.pen.style()))
}

func (e *Editor) AddCircle() *document.Shape {
	left, top := e.nextPosition()
	return e.add(document.NewCircle(left, top, e.pen.style()))
}

func (e *Editor) AddRect() *document.Shape {
	left, top := e.nextPosition()
	return e.add(document.NewRect(left, top, e.pen.style()))
}

func (e *Editor) AddTriangle() *document.Shape {
	left, top := e.nextPosition()
	return e.add(document.NewTriangle(left, top, e.pen.style()))
}

func (e *Editor) AddTextbox() *document.Shape {
	left, top := e.nextPosition()
	return e.add(document.NewTextBox(left, top, e.pen.style(), e.pen.TextFill))
}

// add appends shape and makes it the sole selection, except in drawing
// mode where the editor never selects.
func (e *Editor) add(shape *document.Shape) *document.Shape {
	e.scene.Add(shape)
	if !e.surface.DrawingMode() {
		e.surface.SetActiveObject(shape)
	}
	e.surface.RequestRenderAll()
	return shape
}

func (e *Editor) nextPosition() (float64, float64) {
	return e.cursor.Next(e.surface.Width(), e.surface.Height())
}

// --- Scene queries and bulk operations ---

func (e *Editor) CountObjects() int {
	return e.scene.Len()
}

// HasTextObjects reports whether the scene contains a text box.
func (e *Editor) HasTextObjects() bool {
	return e.scene.HasType(document.ShapeTextBox)
}

// Clear removes every shape and resets the placement cursor.
func (e *Editor) Clear() {
	e.surface.DiscardActiveObject()
	e.scene.Clear()
	e.cursor.Reset()
	e.surface.RenderAll()
}

// --- Surface passthrough ---

func (e *Editor) SetWidth(w float64)  { e.surface.SetWidth(w) }
func (e *Editor) SetHeight(h float64) { e.surface.SetHeight(h) }

func (e *Editor) SetBackgroundImage(url string) {
	e.surface.SetBackgroundImage(url)
}
