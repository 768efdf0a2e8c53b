package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchboard/internal/document"
)

type recordingPresenter struct {
	frames []Frame
}

func (p *recordingPresenter) Present(f Frame) {
	p.frames = append(p.frames, f)
}

func (p *recordingPresenter) last() Frame {
	return p.frames[len(p.frames)-1]
}

func style() document.Style {
	return document.Style{Fill: "#ffffff", Stroke: "#000000", StrokeWidth: 2, Opacity: 1}
}

func newTestSurface() (*Surface, *document.Scene, *recordingPresenter) {
	scene := document.NewScene()
	s := New(scene, DefaultOptions())
	p := &recordingPresenter{}
	s.SetPresenter(p)
	return s, scene, p
}

func TestSelectionEvents(t *testing.T) {
	s, scene, _ := newTestSurface()
	var created, updated, cleared int
	s.On(Handlers{
		SelectionCreated: func() { created++ },
		SelectionUpdated: func() { updated++ },
		SelectionCleared: func() { cleared++ },
	})

	a := document.NewRect(10, 10, style())
	b := document.NewCircle(100, 100, style())
	scene.Add(a, b)

	s.SetActiveObject(a)
	s.Select(a, b)
	s.DiscardActiveObject()
	s.DiscardActiveObject()

	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, cleared)
	assert.Empty(t, s.ActiveObjects())
}

func TestActiveObjectsIsCopy(t *testing.T) {
	s, scene, _ := newTestSurface()
	a := document.NewRect(10, 10, style())
	scene.Add(a)
	s.SetActiveObject(a)

	active := s.ActiveObjects()
	active[0] = nil
	assert.Same(t, a, s.ActiveObjects()[0])
}

func TestRenderAllFiresAfterRender(t *testing.T) {
	s, scene, p := newTestSurface()
	var counts []int
	s.On(Handlers{AfterRender: func(n int) { counts = append(counts, n) }})

	scene.Add(document.NewRect(10, 10, style()), document.NewTriangle(80, 10, style()))
	s.RenderAll()

	assert.Equal(t, []int{2}, counts)
	require.Len(t, p.frames, 1)
	assert.Equal(t, 2, p.last().ObjectCount)
	assert.Len(t, p.last().Commands, 2)
	assert.Equal(t, 1, s.RenderCount())
}

func TestRequestRenderAllIsDeferred(t *testing.T) {
	s, _, p := newTestSurface()

	s.RequestRenderAll()
	s.RequestRenderAll()
	assert.Empty(t, p.frames)

	assert.True(t, s.Flush())
	assert.False(t, s.Flush())
	assert.Len(t, p.frames, 1)
}

func TestBackgroundCommand(t *testing.T) {
	s, _, p := newTestSurface()
	s.SetBackgroundImage("/assets/bg.png")
	s.RenderAll()

	cmds := p.last().Commands
	require.Len(t, cmds, 1)
	assert.Equal(t, "background", cmds[0].Op)
	assert.Equal(t, "/assets/bg.png", cmds[0].ImageURL)
	assert.Equal(t, 800.0, cmds[0].Width)
}

func TestSkipOffscreen(t *testing.T) {
	s, scene, p := newTestSurface()
	scene.Add(document.NewRect(10, 10, style()), document.NewRect(5000, 5000, style()))
	s.RenderAll()

	assert.Equal(t, 2, p.last().ObjectCount)
	assert.Len(t, p.last().Commands, 1)
}

func TestDirtyShapeIsRebuilt(t *testing.T) {
	s, scene, p := newTestSurface()
	rect := document.NewRect(10, 10, style())
	scene.Add(rect)
	s.RenderAll()
	assert.Equal(t, "#ffffff", p.last().Commands[0].Fill)

	rect.Style.Fill = "#ff0000"
	rect.Dirty = true
	s.RenderAll()
	assert.Equal(t, "#ff0000", p.last().Commands[0].Fill)
	assert.False(t, rect.Dirty)
}

func TestTransformChangeIsRebuilt(t *testing.T) {
	s, scene, p := newTestSurface()
	rect := document.NewRect(10, 10, style())
	scene.Add(rect)
	s.RenderAll()

	rect.Transform.Left = 30
	s.RenderAll()
	assert.Equal(t, 30.0, p.last().Commands[0].Transform[4])
}

func TestStrokeUniform(t *testing.T) {
	s, scene, p := newTestSurface()
	s.SetStrokeUniform(true)

	rect := document.NewRect(10, 10, style())
	rect.Style.StrokeWidth = 4
	rect.Transform.ScaleX, rect.Transform.ScaleY = 2, 2
	scene.Add(rect)
	s.RenderAll()

	assert.Equal(t, 2.0, p.last().Commands[0].StrokeWidth)
}

func TestTextBoxCommands(t *testing.T) {
	s, scene, p := newTestSurface()
	text := document.NewTextBox(10, 10, document.Style{Stroke: "#000000", StrokeWidth: 1, Opacity: 1}, "#00ff00")
	scene.Add(text)
	s.RenderAll()

	// No fill, so no background box.
	cmds := p.last().Commands
	require.Len(t, cmds, 1)
	assert.Equal(t, "text", cmds[0].Op)
	assert.Equal(t, "#00ff00", cmds[0].Fill)

	text.Style.Fill = "#ffff00"
	text.Dirty = true
	s.RenderAll()
	cmds = p.last().Commands
	require.Len(t, cmds, 2)
	assert.Equal(t, "path", cmds[0].Op)
	assert.Equal(t, "#ffff00", cmds[0].Fill)
	assert.Empty(t, cmds[0].Stroke)
}

func TestSelectAt(t *testing.T) {
	s, scene, _ := newTestSurface()
	bottom := document.NewRect(100, 100, style())
	top := document.NewRect(120, 120, style())
	line := document.NewLine(300, 300, style())
	scene.Add(bottom, top, line)

	assert.Same(t, top, s.SelectAt(130, 130))
	assert.Same(t, bottom, s.SelectAt(105, 105))
	assert.Same(t, line, s.SelectAt(325, 325))

	assert.Nil(t, s.SelectAt(700, 10))
	assert.Empty(t, s.ActiveObjects())
}

func TestScaleAndModifiedEvents(t *testing.T) {
	s, scene, _ := newTestSurface()
	rect := document.NewRect(10, 10, style())
	scene.Add(rect)

	var scaling int
	var modified []Action
	s.On(Handlers{
		ObjectScaling:  func(*document.Shape) { scaling++ },
		ObjectModified: func(_ *document.Shape, a Action) { modified = append(modified, a) },
	})

	// No selection: nothing happens.
	s.ScaleActive(2, 2)
	s.EndTransform()
	assert.Zero(t, scaling)
	assert.Empty(t, modified)

	s.SetActiveObject(rect)
	s.MoveActive(5, 5)
	s.ScaleActive(1.5, 1.5)
	s.ScaleActive(2, 3)
	s.EndTransform()

	assert.Equal(t, 2, scaling)
	assert.Equal(t, []Action{ActionScale}, modified)
	assert.Equal(t, 2.0, rect.Transform.ScaleX)
	assert.Equal(t, 3.0, rect.Transform.ScaleY)
	assert.Equal(t, 15.0, rect.Transform.Left)

	s.MoveActive(1, 0)
	s.EndTransform()
	assert.Equal(t, []Action{ActionScale, ActionMove}, modified)
}

func TestDrawingModeBlocksSelection(t *testing.T) {
	s, scene, _ := newTestSurface()
	rect := document.NewRect(10, 10, style())
	scene.Add(rect)

	s.SetDrawingMode(true)
	s.Select(rect)
	assert.Empty(t, s.ActiveObjects())
	assert.Nil(t, s.SelectAt(20, 20))
}

func TestCommitStroke(t *testing.T) {
	s, scene, _ := newTestSurface()
	var created *document.Shape
	s.On(Handlers{PathCreated: func(p *document.Shape) { created = p }})

	points := []Point{{X: 10, Y: 20}, {X: 30, Y: 40}, {X: 50, Y: 20}}
	assert.Nil(t, s.CommitStroke(points))
	assert.Equal(t, 0, scene.Len())

	s.SetDrawingMode(true)
	brush, err := NewBrush(BrushPencil, "#123456", 3)
	require.NoError(t, err)
	s.SetBrush(brush)

	path := s.CommitStroke(points)
	require.NotNil(t, path)
	assert.Same(t, path, created)
	assert.Same(t, path, scene.Last())
	assert.Equal(t, document.ShapePath, path.Type)
	assert.Equal(t, "#123456", path.Style.Stroke)
	assert.Equal(t, 3.0, path.Style.StrokeWidth)
	assert.Empty(t, path.Style.Fill)
	assert.Equal(t, 10.0, path.Transform.Left)
	assert.Equal(t, 20.0, path.Transform.Top)

	b := document.PathBounds(path.Path.Commands)
	assert.Equal(t, 0.0, b.MinX)
	assert.Equal(t, 0.0, b.MinY)
}
