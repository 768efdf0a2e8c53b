package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/inamate/sketchboard/internal/document"
)

// SVGOptions control the vector export.
type SVGOptions struct {
	Width  float64
	Height float64
	Title  string
	// NonScalingStroke marks every element so that viewers keep stroke
	// widths constant under the shape transform.
	NonScalingStroke bool
}

// WriteSVG writes shapes as a standalone SVG document in z-order. Every
// shape becomes a group carrying its transform and opacity around one
// element in local coordinates.
func WriteSVG(w io.Writer, shapes []*document.Shape, opts SVGOptions) error {
	canvas := svg.New(w)
	canvas.Start(int(math.Ceil(opts.Width)), int(math.Ceil(opts.Height)))
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	for _, s := range shapes {
		canvas.Group(
			fmt.Sprintf(`id="%s"`, escape(s.ID)),
			fmt.Sprintf(`transform="%s"`, transformAttr(s.Transform)),
			fmt.Sprintf(`opacity="%s"`, num(s.Style.Opacity)),
		)
		if err := writeShape(canvas, s, opts); err != nil {
			return fmt.Errorf("write %s %s: %w", s.Type, s.ID, err)
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}

func writeShape(canvas *svg.SVG, s *document.Shape, opts SVGOptions) error {
	style := paintStyle(s.Style.Fill, s.Style.Stroke, s.Style.StrokeWidth, opts.NonScalingStroke)

	switch s.Type {
	case document.ShapeRectangle:
		if s.Rect == nil {
			return nil
		}
		_, err := fmt.Fprintf(canvas.Writer, `<rect x="0" y="0" width="%s" height="%s" style="%s" />`+"\n",
			num(s.Rect.Width), num(s.Rect.Height), style)
		return err

	case document.ShapeCircle:
		if s.Circle == nil {
			return nil
		}
		r := s.Circle.Radius
		_, err := fmt.Fprintf(canvas.Writer, `<circle cx="%s" cy="%s" r="%s" style="%s" />`+"\n",
			num(r), num(r), num(r), style)
		return err

	case document.ShapeTriangle:
		if s.Triangle == nil {
			return nil
		}
		w, h := s.Triangle.Width, s.Triangle.Height
		_, err := fmt.Fprintf(canvas.Writer, `<polygon points="%s,0 %s,%s 0,%s" style="%s" />`+"\n",
			num(w/2), num(w), num(h), num(h), style)
		return err

	case document.ShapeLine:
		if s.Line == nil {
			return nil
		}
		style = paintStyle("", s.Style.Stroke, s.Style.StrokeWidth, opts.NonScalingStroke)
		_, err := fmt.Fprintf(canvas.Writer, `<line x1="%s" y1="%s" x2="%s" y2="%s" style="%s" />`+"\n",
			num(s.Line.X1), num(s.Line.Y1), num(s.Line.X2), num(s.Line.Y2), style)
		return err

	case document.ShapePath:
		if s.Path == nil || len(s.Path.Commands) == 0 {
			return nil
		}
		style = paintStyle("", s.Style.Stroke, s.Style.StrokeWidth, opts.NonScalingStroke)
		canvas.Path(document.FormatPathData(s.Path.Commands), style+";stroke-linecap:round;stroke-linejoin:round")
		return nil

	case document.ShapeTextBox:
		if s.Text == nil {
			return nil
		}
		writeText(canvas, s, opts)
		return nil
	}
	return nil
}

// writeText draws the box background when the shape has a fill, then one
// text element per line. Stroke outlines the glyphs.
func writeText(canvas *svg.SVG, s *document.Shape, opts SVGOptions) {
	t := s.Text
	if s.Style.Fill != "" {
		w, h := s.Size()
		fmt.Fprintf(canvas.Writer, `<rect x="0" y="0" width="%s" height="%s" style="%s" />`+"\n",
			num(w), num(h), escape("fill:"+s.Style.Fill+";stroke:none"))
	}

	style := paintStyle(t.Fill, s.Style.Stroke, s.Style.StrokeWidth, opts.NonScalingStroke)
	style += escape(fmt.Sprintf(";font-size:%spx;font-family:%s", num(t.FontSize), t.FontFamily))

	lineHeight := t.FontSize * document.TextLineHeight
	for i, line := range strings.Split(t.Text, "\n") {
		baseline := t.FontSize + float64(i)*lineHeight
		fmt.Fprintf(canvas.Writer, `<text x="0" y="%s" style="%s">`, num(baseline), style)
		xml.EscapeText(canvas.Writer, []byte(line))
		io.WriteString(canvas.Writer, "</text>\n")
	}
}

func paintStyle(fill, stroke string, width float64, nonScaling bool) string {
	if fill == "" {
		fill = "none"
	}
	if stroke == "" {
		stroke = "none"
	}
	style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", fill, stroke, num(width))
	if nonScaling {
		style += ";vector-effect:non-scaling-stroke"
	}
	return escape(style)
}

// escape makes v safe inside a double-quoted attribute.
func escape(v string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(v))
	return sb.String()
}

func transformAttr(t document.Transform) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "translate(%s %s)", num(t.Left), num(t.Top))
	if t.Angle != 0 {
		fmt.Fprintf(&sb, " rotate(%s)", num(t.Angle))
	}
	if !t.IsIdentityScale() {
		fmt.Fprintf(&sb, " scale(%s %s)", num(t.ScaleX), num(t.ScaleY))
	}
	return sb.String()
}

// num formats coordinates with at most four decimals.
func num(v float64) string {
	return document.FormatNumber(math.Round(v*1e4) / 1e4)
}
