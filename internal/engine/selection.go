package engine

import (
	"github.com/inamate/sketchboard/internal/document"
)

// The surface decides what is selected; these operations act on whatever
// it reports as active. Over an empty selection they do nothing.

// SelectedObjects returns the current selection.
func (e *Editor) SelectedObjects() []*document.Shape {
	return e.surface.ActiveObjects()
}

func (e *Editor) SetFillSelected() {
	e.applyFill(e.pen.Fill, e.pen.TextFill)
}

// SetFillSelectedExt fills the selection with an explicit color instead of
// the pen fill. Text boxes take it as their glyph color.
func (e *Editor) SetFillSelectedExt(value string) {
	e.applyFill(value, value)
}

func (e *Editor) applyFill(fill, textFill string) {
	e.eachSelected(func(s *document.Shape) {
		switch s.Type {
		case document.ShapeLine, document.ShapePath:
			// Stroke-only variants.
		case document.ShapeTextBox:
			if s.Text != nil {
				s.Text.Fill = textFill
			}
		default:
			s.Style.Fill = fill
		}
	})
}

func (e *Editor) SetStrokeSelected() {
	stroke := e.pen.Stroke
	e.eachSelected(func(s *document.Shape) {
		s.Style.Stroke = stroke
	})
}

func (e *Editor) SetOpacitySelected() {
	opacity := e.pen.Opacity
	e.eachSelected(func(s *document.Shape) {
		s.Style.Opacity = opacity
	})
}

// SetStrokeWidthSelected applies the pen stroke width to the selection.
// Rectangles are flattened at the new width; other shapes keep their scale
// and get a stroke width compensated for it.
func (e *Editor) SetStrokeWidthSelected() {
	width := e.pen.StrokeWidth
	e.eachSelected(func(s *document.Shape) {
		if e.mode == StrokeModeUniform {
			Flatten(s, nil)
			s.Style.StrokeWidth = width
			return
		}
		setStrokeWidth(s, width)
	})
}

func (e *Editor) eachSelected(fn func(s *document.Shape)) {
	selected := e.surface.ActiveObjects()
	if len(selected) == 0 {
		return
	}
	for _, s := range selected {
		fn(s)
		s.Dirty = true
	}
	e.surface.RequestRenderAll()
}

// ClearSelected removes the selected shapes from the scene.
func (e *Editor) ClearSelected() {
	selected := e.surface.ActiveObjects()
	if len(selected) == 0 {
		return
	}
	e.surface.DiscardActiveObject()
	e.scene.Remove(selected...)
	e.surface.RequestRenderAll()
}

// DeactivateAll clears the selection without deleting anything.
func (e *Editor) DeactivateAll() {
	e.surface.DiscardActiveObject()
	e.surface.RequestRenderAll()
}
