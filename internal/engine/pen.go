package engine

import "github.com/inamate/sketchboard/internal/document"

// Pen holds the style defaults applied to newly created shapes. Changing
// the pen never touches shapes that already exist.
type Pen struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
	// TextFill colors text box glyphs.
	TextFill string `json:"textFill"`
}

func DefaultPen() Pen {
	return Pen{
		Fill:        "#ffffff",
		Stroke:      "#000000",
		StrokeWidth: 1,
		Opacity:     1,
		TextFill:    "#000000",
	}
}

func (p *Pen) SetFill(v string)          { p.Fill = v }
func (p *Pen) SetStroke(v string)        { p.Stroke = v }
func (p *Pen) SetStrokeWidth(v float64)  { p.StrokeWidth = v }
func (p *Pen) SetOpacity(v float64)      { p.Opacity = v }
func (p *Pen) SetTextFill(v string)      { p.TextFill = v }
func (p *Pen) SetOpacityPerc(pc float64) { p.Opacity = pc / 100 }

func (p *Pen) style() document.Style {
	return document.Style{
		Fill:        p.Fill,
		Stroke:      p.Stroke,
		StrokeWidth: p.StrokeWidth,
		Opacity:     p.Opacity,
	}
}

// Editor-level pen setters, mirroring the host method surface.

func (e *Editor) SetFill(v string)          { e.pen.SetFill(v) }
func (e *Editor) SetStroke(v string)        { e.pen.SetStroke(v) }
func (e *Editor) SetStrokeWidth(v float64)  { e.pen.SetStrokeWidth(v) }
func (e *Editor) SetOpacity(v float64)      { e.pen.SetOpacity(v) }
func (e *Editor) SetOpacityPerc(pc float64) { e.pen.SetOpacityPerc(pc) }
func (e *Editor) SetTextFill(v string)      { e.pen.SetTextFill(v) }
