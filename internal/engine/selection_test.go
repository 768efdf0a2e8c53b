package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/surface"
)

func TestCreateAndStyle(t *testing.T) {
	ed, _, _ := newTestEditor(StrokeModeScaleInvariant)
	ed.AddRect()
	ed.SetStroke("red")
	ed.SetStrokeSelected()

	objects := ed.Scene().Objects()
	require.Len(t, objects, 1)
	assert.Equal(t, "red", objects[0].Style.Stroke)
}

func TestEmptySelectionIsNoOp(t *testing.T) {
	ed, surf, _ := newTestEditor(StrokeModeScaleInvariant)
	rect := ed.AddRect()
	ed.DeactivateAll()
	surf.Flush()

	ed.SetFill("#ff0000")
	ed.SetStroke("#ff0000")
	ed.SetOpacity(0.5)
	ed.SetStrokeWidth(9)
	ed.SetFillSelected()
	ed.SetFillSelectedExt("#00ff00")
	ed.SetStrokeSelected()
	ed.SetOpacitySelected()
	ed.SetStrokeWidthSelected()
	ed.ClearSelected()

	assert.False(t, surf.Flush(), "no render is requested")
	assert.Equal(t, 1, ed.CountObjects())
	assert.Equal(t, "#ffffff", rect.Style.Fill)
	assert.Equal(t, 1.0, rect.Style.StrokeWidth)
}

func TestSetFillSelectedByVariant(t *testing.T) {
	ed, surf, _ := newTestEditor(StrokeModeScaleInvariant)
	rect := ed.AddRect()
	line := ed.AddLine()
	path := document.NewPath(0, 0, document.Style{Stroke: "#000000", StrokeWidth: 1, Opacity: 1},
		[]document.PathCommand{{"M", 0.0, 0.0}, {"L", 10.0, 10.0}})
	ed.Scene().Add(path)
	text := ed.AddTextbox()

	surf.Select(rect, line, path, text)
	ed.SetFill("#abcdef")
	ed.SetTextFill("#123456")
	ed.SetFillSelected()

	assert.Equal(t, "#abcdef", rect.Style.Fill)
	assert.Empty(t, line.Style.Fill)
	assert.Empty(t, path.Style.Fill)
	assert.Equal(t, "#123456", text.Text.Fill)

	ed.SetFillSelectedExt("#ff00ff")
	assert.Equal(t, "#ff00ff", rect.Style.Fill)
	assert.Empty(t, line.Style.Fill)
	assert.Equal(t, "#ff00ff", text.Text.Fill)
}

func TestSetOpacitySelected(t *testing.T) {
	ed, surf, _ := newTestEditor(StrokeModeScaleInvariant)
	a := ed.AddRect()
	b := ed.AddTriangle()
	surf.Select(a, b)

	ed.SetOpacityPerc(40)
	ed.SetOpacitySelected()
	assert.Equal(t, 0.4, a.Style.Opacity)
	assert.Equal(t, 0.4, b.Style.Opacity)
	assert.True(t, surf.Flush())
}

func TestClearSelected(t *testing.T) {
	ed, surf, rec := newTestEditor(StrokeModeScaleInvariant)
	keep := ed.AddRect()
	drop := ed.AddCircle()
	surf.Select(drop)

	ed.ClearSelected()
	assert.Equal(t, []*document.Shape{keep}, ed.Scene().Objects())
	assert.Empty(t, ed.SelectedObjects())
	assert.Equal(t, 1, rec.cleared)
}

func TestDeactivateAllKeepsShapes(t *testing.T) {
	ed, _, rec := newTestEditor(StrokeModeScaleInvariant)
	ed.AddRect()
	ed.DeactivateAll()

	assert.Equal(t, 1, ed.CountObjects())
	assert.Empty(t, ed.SelectedObjects())
	assert.Equal(t, 1, rec.cleared)
}

func TestDrawingModeClearsSelection(t *testing.T) {
	ed, _, _ := newTestEditor(StrokeModeScaleInvariant)
	ed.AddRect()
	require.Len(t, ed.SelectedObjects(), 1)

	ed.EnableDrawingMode(true)
	assert.True(t, ed.IsDrawingMode())
	assert.Empty(t, ed.SelectedObjects())

	// Shapes added while drawing are not selected.
	ed.AddCircle()
	assert.Empty(t, ed.SelectedObjects())

	ed.EnableDrawingMode(false)
	assert.False(t, ed.IsDrawingMode())
}

// orderedSurface records the drawing-mode toggles and full renders the
// editor asks for.
type orderedSurface struct {
	*surface.Surface
	scene *document.Scene
	calls []string
}

func (s *orderedSurface) SetDrawingMode(on bool) {
	if on {
		s.calls = append(s.calls, "drawing:on")
	} else {
		s.calls = append(s.calls, "drawing:off")
	}
	s.Surface.SetDrawingMode(on)
}

func (s *orderedSurface) RenderAll() {
	call := "render"
	if s.Surface.DrawingMode() {
		call += ":drawing"
	}
	if last := s.scene.Last(); last != nil && last.Style.Opacity != 1 {
		call += ":patched"
	}
	s.calls = append(s.calls, call)
	s.Surface.RenderAll()
}

func TestFreehandOpacityPatch(t *testing.T) {
	scene := document.NewScene()
	base := surface.New(scene, surface.DefaultOptions())
	surf := &orderedSurface{Surface: base, scene: scene}
	ed := New(scene, surf, nil, DefaultOptions())

	ed.SetOpacityPerc(50)
	ed.EnableDrawingMode(true)
	surf.calls = nil

	path := base.CommitStroke([]surface.Point{{X: 10, Y: 10}, {X: 20, Y: 30}, {X: 40, Y: 20}})
	require.NotNil(t, path)

	assert.Equal(t, []string{"drawing:off", "render:patched", "drawing:on"}, surf.calls)

	last := ed.Scene().Last()
	assert.Same(t, path, last)
	assert.Equal(t, 0.5, last.Style.Opacity)
	assert.True(t, ed.IsDrawingMode())
}

func TestFreeDrawingBrush(t *testing.T) {
	ed, surf, _ := newTestEditor(StrokeModeScaleInvariant)
	ed.SetStroke("#336699")

	require.NoError(t, ed.SetFreeDrawingBrush(surface.BrushCircle, "", 8))
	brush := surf.Brush()
	assert.Equal(t, surface.BrushCircle, brush.Name)
	assert.Equal(t, "#336699", brush.Color)
	assert.Equal(t, 8.0, brush.Width)

	ed.SetBrushColor("#000000")
	ed.SetBrushWidth(2)
	assert.Equal(t, "#000000", surf.Brush().Color)
	assert.Equal(t, 2.0, surf.Brush().Width)

	err := ed.SetFreeDrawingBrush("Spray", "#000000", 1)
	assert.ErrorIs(t, err, surface.ErrUnknownBrush)
	assert.Equal(t, surface.BrushCircle, surf.Brush().Name)
}
