package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/sketchboard/internal/document"
)

func testStyle() document.Style {
	return document.Style{Fill: "#ffffff", Stroke: "#000000", StrokeWidth: 1, Opacity: 1}
}

func TestWriteSVG(t *testing.T) {
	shapes := []*document.Shape{
		document.NewRect(20, 20, testStyle()),
		document.NewCircle(40, 40, testStyle()),
		document.NewTriangle(60, 60, testStyle()),
		document.NewLine(80, 80, testStyle()),
		document.NewPath(100, 100, testStyle(), []document.PathCommand{{"M", 0.0, 0.0}, {"L", 10.0, 10.0}}),
		document.NewTextBox(120, 120, testStyle(), "#000000"),
	}
	shapes[1].Transform.ScaleX, shapes[1].Transform.ScaleY = 2, 1.5

	var sb strings.Builder
	require.NoError(t, WriteSVG(&sb, shapes, SVGOptions{Width: 640, Height: 480, Title: "drawing"}))
	out := sb.String()

	assert.Contains(t, out, `width="640" height="480"`)
	assert.Contains(t, out, "<title>drawing</title>")
	assert.Contains(t, out, `<rect x="0" y="0" width="50" height="50"`)
	assert.Contains(t, out, `<circle cx="25" cy="25" r="25"`)
	assert.Contains(t, out, `<polygon points="25,0 50,50 0,50"`)
	assert.Contains(t, out, `<line x1="0" y1="0" x2="50" y2="50" style="fill:none;stroke:#000000`)
	assert.Contains(t, out, `<path d="M 0 0 L 10 10"`)
	assert.Contains(t, out, ">Double-click</text>")
	assert.Contains(t, out, ">to edit</text>")
	assert.Contains(t, out, `transform="translate(20 20)"`)
	assert.Contains(t, out, `transform="translate(40 40) scale(2 1.5)"`)
	assert.Contains(t, out, `id="`+shapes[0].ID+`"`)
	assert.NotContains(t, out, "vector-effect")
	assert.Equal(t, len(shapes), strings.Count(out, "</g>"))
}

func TestWriteSVGNonScalingStroke(t *testing.T) {
	var sb strings.Builder
	shapes := []*document.Shape{document.NewRect(0, 0, testStyle())}
	require.NoError(t, WriteSVG(&sb, shapes, SVGOptions{Width: 100, Height: 100, NonScalingStroke: true}))
	assert.Contains(t, sb.String(), "vector-effect:non-scaling-stroke")
}

func TestWriteSVGTextBackground(t *testing.T) {
	text := document.NewTextBox(0, 0, document.Style{Fill: "#ffff00", Opacity: 1}, "#ff0000")
	var sb strings.Builder
	require.NoError(t, WriteSVG(&sb, []*document.Shape{text}, SVGOptions{Width: 100, Height: 100}))
	out := sb.String()
	assert.Contains(t, out, "fill:#ffff00;stroke:none")
	assert.Contains(t, out, "fill:#ff0000;stroke:none")
}

func TestParseSVG(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg">
  <g transform="translate(10,20)" fill="#ff0000">
    <rect x="5" y="5" width="30" height="40" stroke="#000" stroke-width="2"/>
  </g>
  <circle cx="50" cy="50" r="10" style="fill:blue"/>
  <path d="M10 10 L20 30"/>
  <text x="5" y="40" font-size="20">Hi</text>
</svg>`

	shapes, err := ParseSVG(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, shapes, 4)

	rect := shapes[0]
	assert.Equal(t, document.ShapeRectangle, rect.Type)
	assert.InDelta(t, 15, rect.Transform.Left, 1e-9)
	assert.InDelta(t, 25, rect.Transform.Top, 1e-9)
	assert.Equal(t, 30.0, rect.Rect.Width)
	assert.Equal(t, 40.0, rect.Rect.Height)
	assert.Equal(t, "#ff0000", rect.Style.Fill)
	assert.Equal(t, "#000", rect.Style.Stroke)
	assert.Equal(t, 2.0, rect.Style.StrokeWidth)

	circle := shapes[1]
	assert.Equal(t, document.ShapeCircle, circle.Type)
	assert.InDelta(t, 40, circle.Transform.Left, 1e-9)
	assert.InDelta(t, 40, circle.Transform.Top, 1e-9)
	assert.Equal(t, 10.0, circle.Circle.Radius)
	assert.Equal(t, "blue", circle.Style.Fill)
	assert.Empty(t, circle.Style.Stroke)

	path := shapes[2]
	assert.Equal(t, document.ShapePath, path.Type)
	assert.InDelta(t, 10, path.Transform.Left, 1e-9)
	assert.InDelta(t, 10, path.Transform.Top, 1e-9)
	assert.Equal(t, []document.PathCommand{{"M", 0.0, 0.0}, {"L", 10.0, 20.0}}, path.Path.Commands)

	text := shapes[3]
	assert.Equal(t, document.ShapeTextBox, text.Type)
	assert.Equal(t, "Hi", text.Text.Text)
	assert.Equal(t, 20.0, text.Text.FontSize)
	assert.InDelta(t, 5, text.Transform.Left, 1e-9)
	assert.InDelta(t, 20, text.Transform.Top, 1e-9)
}

func TestParseSVGTransforms(t *testing.T) {
	shapes, err := ParseSVG(strings.NewReader(
		`<svg><g transform="scale(2)"><rect width="10" height="10" transform="rotate(90)"/></g><polygon points="0,0 10,0 5,10"/></svg>`))
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	rect := shapes[0]
	assert.InDelta(t, 2, rect.Transform.ScaleX, 1e-9)
	assert.InDelta(t, 2, rect.Transform.ScaleY, 1e-9)
	assert.InDelta(t, 90, rect.Transform.Angle, 1e-9)

	poly := shapes[1]
	assert.Equal(t, document.ShapePath, poly.Type)
	assert.Len(t, poly.Path.Commands, 4)
	assert.Equal(t, document.PathCommand{"Z"}, poly.Path.Commands[3])
}

func TestParseSVGInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "just some text"} {
		_, err := ParseSVG(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrInvalidSVG, "input %q", input)
	}
}

func TestExportImportRect(t *testing.T) {
	rect := document.NewRect(30, 40, document.Style{Fill: "#112233", Stroke: "#445566", StrokeWidth: 3, Opacity: 1})
	rect.Rect.Width, rect.Rect.Height = 80, 60

	var sb strings.Builder
	require.NoError(t, WriteSVG(&sb, []*document.Shape{rect}, SVGOptions{Width: 200, Height: 200}))

	shapes, err := ParseSVG(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, shapes, 1)

	got := shapes[0]
	assert.Equal(t, document.ShapeRectangle, got.Type)
	assert.InDelta(t, 30, got.Transform.Left, 1e-9)
	assert.InDelta(t, 40, got.Transform.Top, 1e-9)
	assert.Equal(t, 80.0, got.Rect.Width)
	assert.Equal(t, 60.0, got.Rect.Height)
	assert.Equal(t, "#112233", got.Style.Fill)
	assert.Equal(t, "#445566", got.Style.Stroke)
	assert.Equal(t, 3.0, got.Style.StrokeWidth)
}

func TestWriteSVGEscapesAttributes(t *testing.T) {
	rect := document.NewRect(0, 0, document.Style{Fill: `red" onload="alert(1)`, Stroke: "#000000", StrokeWidth: 1, Opacity: 1})
	rect.ID = `x"><script>alert(1)</script>`
	text := document.NewTextBox(0, 0, document.Style{Fill: `<b>`, Opacity: 1}, `blue&"`)
	text.Text.Text = `a < b & "c"`
	text.Text.FontFamily = `"Open Sans", sans-serif`

	var sb strings.Builder
	require.NoError(t, WriteSVG(&sb, []*document.Shape{rect, text}, SVGOptions{Width: 100, Height: 100}))
	out := sb.String()

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `" onload="`)
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "font-family:&#34;Open Sans&#34;, sans-serif")
	assert.Contains(t, out, ">a &lt; b &amp; &#34;c&#34;</text>")

	shapes, err := ParseSVG(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, shapes, 3)
	assert.Equal(t, `red" onload="alert(1)`, shapes[0].Style.Fill)
	assert.Equal(t, `<b>`, shapes[1].Style.Fill)
	assert.Equal(t, `blue&"`, shapes[2].Text.Fill)
	assert.Equal(t, `a < b & "c"`, shapes[2].Text.Text)
	assert.Equal(t, `"Open Sans", sans-serif`, shapes[2].Text.FontFamily)
}

func TestWriteSVGFractionalBaseline(t *testing.T) {
	text := document.NewTextBox(0, 0, document.Style{Opacity: 1}, "#000000")
	text.Text.FontSize = 13.5

	var sb strings.Builder
	require.NoError(t, WriteSVG(&sb, []*document.Shape{text}, SVGOptions{Width: 100, Height: 100}))
	out := sb.String()

	assert.Contains(t, out, `<text x="0" y="13.5"`)
	assert.Contains(t, out, `<text x="0" y="29.16"`)
	assert.Contains(t, out, "font-size:13.5px")
}
