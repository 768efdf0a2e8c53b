package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/surface"
)

var ErrInvalidSVG = errors.New("invalid svg")

// paint is the inheritable presentation state of an SVG element.
type paint struct {
	fill, stroke string
	strokeWidth  float64
	opacity      float64
	fontSize     float64
	fontFamily   string
}

var initialPaint = paint{
	fill:        "#000000",
	stroke:      "",
	strokeWidth: 1,
	opacity:     1,
	fontSize:    16,
	fontFamily:  document.DefaultFontFamily,
}

type frame struct {
	m     surface.Matrix2D
	paint paint
}

// ParseSVG reads an SVG document or fragment and returns the shapes it
// describes, in document order. Unsupported elements are skipped.
func ParseSVG(r io.Reader) ([]*document.Shape, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel

	stack := []frame{{m: surface.Identity(), paint: initialPaint}}
	var (
		shapes []*document.Shape
		text   *textState
		sawAny bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawAny = true
			parent := stack[len(stack)-1]
			cur := frame{m: parent.m, paint: parent.paint}
			applyPaint(&cur.paint, t.Attr)
			if tr := attr(t.Attr, "transform"); tr != "" {
				cur.m = cur.m.Multiply(parseTransform(tr))
			}
			stack = append(stack, cur)

			switch t.Name.Local {
			case "text":
				text = &textState{frame: cur, x: attrFloat(t.Attr, "x"), y: attrFloat(t.Attr, "y")}
			case "tspan":
				if text != nil && text.sb.Len() > 0 {
					text.sb.WriteByte('\n')
				}
			default:
				if s := shapeFromElement(t, cur); s != nil {
					shapes = append(shapes, s)
				}
			}

		case xml.CharData:
			if text != nil {
				text.sb.WriteString(strings.TrimSpace(string(t)))
			}

		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local == "text" && text != nil {
				shapes = append(shapes, text.shape())
				text = nil
			}
		}
	}

	if !sawAny {
		return nil, fmt.Errorf("%w: no elements", ErrInvalidSVG)
	}
	return shapes, nil
}

func shapeFromElement(el xml.StartElement, f frame) *document.Shape {
	a := el.Attr
	switch el.Name.Local {
	case "rect":
		x, y := attrFloat(a, "x"), attrFloat(a, "y")
		s := document.NewRect(0, 0, f.style())
		s.Rect.Width, s.Rect.Height = attrFloat(a, "width"), attrFloat(a, "height")
		place(s, f.m.Multiply(surface.Translate(x, y)))
		return s

	case "circle":
		cx, cy, r := attrFloat(a, "cx"), attrFloat(a, "cy"), attrFloat(a, "r")
		s := document.NewCircle(0, 0, f.style())
		s.Circle.Radius = r
		place(s, f.m.Multiply(surface.Translate(cx-r, cy-r)))
		return s

	case "ellipse":
		cx, cy := attrFloat(a, "cx"), attrFloat(a, "cy")
		rx, ry := attrFloat(a, "rx"), attrFloat(a, "ry")
		if rx == 0 {
			return nil
		}
		s := document.NewCircle(0, 0, f.style())
		s.Circle.Radius = rx
		place(s, f.m.Multiply(surface.Translate(cx-rx, cy-ry)).Multiply(surface.Scale(1, ry/rx)))
		return s

	case "line":
		x1, y1 := attrFloat(a, "x1"), attrFloat(a, "y1")
		x2, y2 := attrFloat(a, "x2"), attrFloat(a, "y2")
		ox, oy := math.Min(x1, x2), math.Min(y1, y2)
		s := document.NewLine(0, 0, f.style())
		s.Line.X1, s.Line.Y1, s.Line.X2, s.Line.Y2 = x1-ox, y1-oy, x2-ox, y2-oy
		place(s, f.m.Multiply(surface.Translate(ox, oy)))
		return s

	case "polygon", "polyline":
		cmds := pointsPath(attr(a, "points"), el.Name.Local == "polygon")
		if len(cmds) == 0 {
			return nil
		}
		return pathShape(cmds, f)

	case "path":
		cmds, err := document.ParsePathData(attr(a, "d"))
		if err != nil || len(cmds) == 0 {
			return nil
		}
		return pathShape(cmds, f)
	}
	return nil
}

// pathShape keeps the element fill, unlike brush-drawn paths, since
// imported outlines are often filled glyphs or icons.
func pathShape(cmds []document.PathCommand, f frame) *document.Shape {
	b := document.PathBounds(cmds)
	style := f.style()
	s := document.NewPath(0, 0, style, document.TranslatePath(cmds, -b.MinX, -b.MinY))
	s.Style.Fill = style.Fill
	place(s, f.m.Multiply(surface.Translate(b.MinX, b.MinY)))
	return s
}

func pointsPath(points string, closed bool) []document.PathCommand {
	fields := strings.FieldsFunc(points, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	var cmds []document.PathCommand
	for i := 0; i+1 < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			return nil
		}
		op := "L"
		if i == 0 {
			op = "M"
		}
		cmds = append(cmds, document.PathCommand{op, x, y})
	}
	if closed && len(cmds) > 0 {
		cmds = append(cmds, document.PathCommand{"Z"})
	}
	return cmds
}

type textState struct {
	frame frame
	x, y  float64
	sb    strings.Builder
}

// shape converts a text element to a text box. SVG positions text by its
// baseline; the box top sits one font size above it.
func (ts *textState) shape() *document.Shape {
	p := ts.frame.paint
	style := ts.frame.style()
	s := document.NewTextBox(0, 0, document.Style{
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth,
		Opacity:     style.Opacity,
	}, p.fill)
	s.Text.Text = ts.sb.String()
	s.Text.FontSize = p.fontSize
	s.Text.FontFamily = p.fontFamily
	longest := 0
	for _, line := range strings.Split(s.Text.Text, "\n") {
		longest = max(longest, len([]rune(line)))
	}
	// Rough advance width of half an em per character.
	s.Text.Width = math.Max(float64(longest)*p.fontSize*0.5, p.fontSize)
	place(s, ts.frame.m.Multiply(surface.Translate(ts.x, ts.y-p.fontSize)))
	return s
}

func (f frame) style() document.Style {
	p := f.paint
	fill := p.fill
	if fill == "none" {
		fill = ""
	}
	stroke := p.stroke
	if stroke == "none" {
		stroke = ""
	}
	width := p.strokeWidth
	if stroke == "" {
		width = 0
	}
	return document.Style{Fill: fill, Stroke: stroke, StrokeWidth: width, Opacity: p.opacity}
}

// place decomposes m into the shape transform. Skew is not representable
// and is dropped.
func place(s *document.Shape, m surface.Matrix2D) {
	s.Transform.Left, s.Transform.Top = m[4], m[5]
	s.Transform.ScaleX = math.Hypot(m[0], m[1])
	s.Transform.ScaleY = math.Hypot(m[2], m[3])
	angle := math.Atan2(m[1], m[0]) * 180 / math.Pi
	if math.Abs(angle) < 1e-9 {
		angle = 0
	}
	s.Transform.Angle = angle
}

func applyPaint(p *paint, attrs []xml.Attr) {
	set := func(name, value string) {
		value = strings.TrimSpace(value)
		switch name {
		case "fill":
			p.fill = value
		case "stroke":
			p.stroke = value
		case "stroke-width":
			if v, err := parseLength(value); err == nil {
				p.strokeWidth = v
			}
		case "opacity":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				p.opacity *= v
			}
		case "font-size":
			if v, err := parseLength(value); err == nil {
				p.fontSize = v
			}
		case "font-family":
			p.fontFamily = value
		}
	}
	for _, a := range attrs {
		set(a.Name.Local, a.Value)
	}
	// Inline style wins over presentation attributes.
	for _, decl := range strings.Split(attr(attrs, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok {
			set(strings.TrimSpace(name), value)
		}
	}
}

func parseLength(v string) (float64, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	return strconv.ParseFloat(v, 64)
}

// parseTransform parses a transform list of matrix, translate, scale and
// rotate functions.
func parseTransform(s string) surface.Matrix2D {
	m := surface.Identity()
	for {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open < 0 || end < open {
			return m
		}
		name := strings.TrimSpace(strings.Trim(s[:open], " ,"))
		args := parseNumbers(s[open+1 : end])
		s = s[end+1:]

		switch name {
		case "matrix":
			if len(args) == 6 {
				m = m.Multiply(surface.Matrix2D{args[0], args[1], args[2], args[3], args[4], args[5]})
			}
		case "translate":
			switch len(args) {
			case 1:
				m = m.Multiply(surface.Translate(args[0], 0))
			case 2:
				m = m.Multiply(surface.Translate(args[0], args[1]))
			}
		case "scale":
			switch len(args) {
			case 1:
				m = m.Multiply(surface.Scale(args[0], args[0]))
			case 2:
				m = m.Multiply(surface.Scale(args[0], args[1]))
			}
		case "rotate":
			switch len(args) {
			case 1:
				m = m.Multiply(surface.RotateDegrees(args[0]))
			case 3:
				m = m.Multiply(surface.Translate(args[1], args[2])).
					Multiply(surface.RotateDegrees(args[0])).
					Multiply(surface.Translate(-args[1], -args[2]))
			}
		}
	}
}

func parseNumbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrFloat(attrs []xml.Attr, name string) float64 {
	v, _ := parseLength(attr(attrs, name))
	return v
}
