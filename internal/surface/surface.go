// Package surface is the drawing surface an editor renders onto. It owns
// the surface size, background image, freehand brush, drawing flag and the
// set of active (selected) shapes, and raises render, selection and
// transform events. Shapes themselves belong to the editor's scene.
package surface

import (
	"github.com/inamate/sketchboard/internal/document"
)

// Action is the kind of interactive transform that produced an
// object:modified event.
type Action string

const (
	ActionNone  Action = ""
	ActionScale Action = "scale"
	ActionMove  Action = "move"
)

// Handlers are the surface event subscriptions. Nil handlers are skipped.
type Handlers struct {
	AfterRender      func(objectCount int)
	SelectionCreated func()
	SelectionCleared func()
	SelectionUpdated func()
	PathCreated      func(path *document.Shape)
	ObjectScaling    func(shape *document.Shape)
	ObjectModified   func(shape *document.Shape, action Action)
}

// Presenter receives every rendered frame, e.g. to push it to a display.
type Presenter interface {
	Present(frame Frame)
}

type Options struct {
	Width  float64
	Height float64
	// SkipOffscreen culls shapes whose bounds lie outside the surface.
	SkipOffscreen bool
	// StrokeUniform keeps rendered stroke widths constant under scale.
	StrokeUniform bool
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, SkipOffscreen: true}
}

type Surface struct {
	opts       Options
	scene      *document.Scene
	background string

	drawing bool
	brush   *Brush

	active   []*document.Shape
	action   Action
	handlers Handlers

	presenter     Presenter
	pendingRender bool
	renders       int

	cache map[*document.Shape]*RenderNode
	nodes []*RenderNode
}

// New creates a surface that renders scene.
func New(scene *document.Scene, opts Options) *Surface {
	brush, _ := NewBrush(BrushPencil, "#000000", 1)
	return &Surface{
		opts:  opts,
		scene: scene,
		brush: brush,
		cache: make(map[*document.Shape]*RenderNode),
	}
}

// On replaces the event subscriptions.
func (s *Surface) On(h Handlers) {
	s.handlers = h
}

func (s *Surface) SetPresenter(p Presenter) {
	s.presenter = p
}

func (s *Surface) Width() float64  { return s.opts.Width }
func (s *Surface) Height() float64 { return s.opts.Height }

func (s *Surface) SetWidth(w float64) {
	s.opts.Width = w
	s.RequestRenderAll()
}

func (s *Surface) SetHeight(h float64) {
	s.opts.Height = h
	s.RequestRenderAll()
}

// SetStrokeUniform toggles render-time stroke compensation.
func (s *Surface) SetStrokeUniform(on bool) {
	s.opts.StrokeUniform = on
	s.invalidate()
}

// SetBackgroundImage stretches the image at url over the whole surface,
// anchored top-left. The background is not part of the scene.
func (s *Surface) SetBackgroundImage(url string) {
	s.background = url
	s.RequestRenderAll()
}

func (s *Surface) BackgroundImage() string { return s.background }

// SetDrawingMode switches pointer input between freehand capture and
// selection/transform handling.
func (s *Surface) SetDrawingMode(on bool) {
	s.drawing = on
}

func (s *Surface) DrawingMode() bool { return s.drawing }

func (s *Surface) SetBrush(b *Brush) { s.brush = b }

func (s *Surface) Brush() *Brush { return s.brush }

// --- Rendering ---

// RequestRenderAll schedules a render for the next Flush.
func (s *Surface) RequestRenderAll() {
	s.pendingRender = true
}

// Flush renders if a render was requested. It reports whether it rendered.
func (s *Surface) Flush() bool {
	if !s.pendingRender {
		return false
	}
	s.RenderAll()
	return true
}

// RenderAll renders the scene synchronously and fires after:render.
func (s *Surface) RenderAll() {
	s.pendingRender = false

	objects := s.scene.Objects()
	live := make(map[*document.Shape]*RenderNode, len(objects))
	s.nodes = s.nodes[:0]

	view := Rect{Width: s.opts.Width, Height: s.opts.Height}
	commands := make([]DrawCommand, 0, len(objects)+1)
	if s.background != "" {
		commands = append(commands, DrawCommand{
			Op:        "background",
			ImageURL:  s.background,
			Transform: Identity().ToSlice(),
			Width:     s.opts.Width,
			Height:    s.opts.Height,
		})
	}

	for _, shape := range objects {
		node := s.node(shape)
		live[shape] = node
		s.nodes = append(s.nodes, node)
		if s.opts.SkipOffscreen && !node.Bounds.Intersects(view) {
			continue
		}
		compileNode(node, &commands)
	}
	s.cache = live
	s.renders++

	if s.presenter != nil {
		s.presenter.Present(Frame{
			Width:       s.opts.Width,
			Height:      s.opts.Height,
			ObjectCount: len(objects),
			Commands:    commands,
		})
	}
	if s.handlers.AfterRender != nil {
		s.handlers.AfterRender(len(objects))
	}
}

// RenderCount returns how many frames have been rendered.
func (s *Surface) RenderCount() int { return s.renders }

// node returns the cached render node for shape, rebuilding it when the
// shape is dirty or its transform changed since the last build.
func (s *Surface) node(shape *document.Shape) *RenderNode {
	if n, ok := s.cache[shape]; ok && !shape.Dirty && n.Transform == shape.Transform {
		return n
	}
	shape.Dirty = false
	return buildNode(shape, s.opts.StrokeUniform)
}

func (s *Surface) invalidate() {
	s.cache = make(map[*document.Shape]*RenderNode)
}

// --- Selection ---

// ActiveObjects returns a copy of the current selection.
func (s *Surface) ActiveObjects() []*document.Shape {
	return append([]*document.Shape(nil), s.active...)
}

// SetActiveObject makes shape the sole selection.
func (s *Surface) SetActiveObject(shape *document.Shape) {
	s.setActive([]*document.Shape{shape})
}

// Select replaces the selection with shapes. Ignored while drawing.
func (s *Surface) Select(shapes ...*document.Shape) {
	if s.drawing {
		return
	}
	s.setActive(shapes)
}

// SelectAt selects the topmost shape under the point, or clears the
// selection when nothing is hit. It returns the hit shape.
func (s *Surface) SelectAt(x, y float64) *document.Shape {
	if s.drawing {
		return nil
	}
	if len(s.nodes) != s.scene.Len() {
		s.RenderAll()
	}
	node := hitTest(s.nodes, x, y)
	if node == nil {
		s.DiscardActiveObject()
		return nil
	}
	s.setActive([]*document.Shape{node.Shape})
	return node.Shape
}

// DiscardActiveObject clears the selection without touching the scene.
func (s *Surface) DiscardActiveObject() {
	s.setActive(nil)
}

func (s *Surface) setActive(shapes []*document.Shape) {
	wasEmpty := len(s.active) == 0
	s.active = s.active[:0]
	for _, shape := range shapes {
		if shape != nil {
			s.active = append(s.active, shape)
		}
	}
	s.action = ActionNone

	switch {
	case len(s.active) == 0 && !wasEmpty:
		fire(s.handlers.SelectionCleared)
	case len(s.active) > 0 && wasEmpty:
		fire(s.handlers.SelectionCreated)
	case len(s.active) > 0:
		fire(s.handlers.SelectionUpdated)
	}
}

func fire(fn func()) {
	if fn != nil {
		fn()
	}
}

// --- Pointer gestures ---

// ScaleActive sets the scale of every active shape as one step of a
// continuous resize gesture and fires object:scaling for each.
func (s *Surface) ScaleActive(sx, sy float64) {
	if s.drawing || len(s.active) == 0 {
		return
	}
	s.action = ActionScale
	for _, shape := range s.active {
		shape.Transform.ScaleX = sx
		shape.Transform.ScaleY = sy
		if s.handlers.ObjectScaling != nil {
			s.handlers.ObjectScaling(shape)
		}
	}
	s.RequestRenderAll()
}

// MoveActive translates every active shape.
func (s *Surface) MoveActive(dx, dy float64) {
	if s.drawing || len(s.active) == 0 {
		return
	}
	if s.action == ActionNone {
		s.action = ActionMove
	}
	for _, shape := range s.active {
		shape.Transform.Left += dx
		shape.Transform.Top += dy
	}
	s.RequestRenderAll()
}

// EndTransform completes the current gesture and fires object:modified.
func (s *Surface) EndTransform() {
	action := s.action
	s.action = ActionNone
	if action == ActionNone {
		return
	}
	for _, shape := range s.active {
		if s.handlers.ObjectModified != nil {
			s.handlers.ObjectModified(shape, action)
		}
	}
	s.RequestRenderAll()
}

// CommitStroke finishes a freehand stroke: the brush builds a path, the
// path is appended to the scene and path:created fires. It is a no-op
// outside drawing mode.
func (s *Surface) CommitStroke(points []Point) *document.Shape {
	if !s.drawing || s.brush == nil || len(points) == 0 {
		return nil
	}
	cmds, width := s.brush.Path(points)
	b := document.PathBounds(cmds)
	path := document.NewPath(b.MinX, b.MinY, document.Style{
		Stroke:      s.brush.Color,
		StrokeWidth: width,
		Opacity:     1,
	}, document.TranslatePath(cmds, -b.MinX, -b.MinY))

	s.scene.Add(path)
	if s.handlers.PathCreated != nil {
		s.handlers.PathCreated(path)
	}
	s.RequestRenderAll()
	return path
}
