package surface

import (
	"encoding/json"

	"github.com/inamate/sketchboard/internal/document"
)

// DrawCommand represents a single drawing operation for a display to execute.
type DrawCommand struct {
	Op          string                 `json:"op"`                    // "background", "path", "text"
	ObjectID    string                 `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64              `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []document.PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string                 `json:"fill,omitempty"`        // Fill color
	Stroke      string                 `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64                `json:"strokeWidth,omitempty"` // Stroke width
	Opacity     float64                `json:"opacity,omitempty"`     // Global alpha

	// "text" ops
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`

	// "background" ops
	ImageURL string  `json:"imageUrl,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

// Frame is one complete rendering of the surface.
type Frame struct {
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	ObjectCount int           `json:"objectCount"`
	Commands    []DrawCommand `json:"commands"`
}

// compileNode appends the draw commands of one node in painter's order.
func compileNode(node *RenderNode, commands *[]DrawCommand) {
	if node == nil {
		return
	}

	if len(node.Path) > 0 {
		*commands = append(*commands, DrawCommand{
			Op:          "path",
			ObjectID:    node.Shape.ID,
			Transform:   node.World.ToSlice(),
			Path:        node.Path,
			Opacity:     node.Opacity,
			Fill:        node.Fill,
			Stroke:      node.strokeForPath(),
			StrokeWidth: node.strokeWidthForPath(),
		})
	}

	if node.Text != nil {
		*commands = append(*commands, DrawCommand{
			Op:          "text",
			ObjectID:    node.Shape.ID,
			Transform:   node.World.ToSlice(),
			Opacity:     node.Opacity,
			Fill:        node.Text.Fill,
			Stroke:      node.Stroke,
			StrokeWidth: node.StrokeWidth,
			Text:        node.Text.Text,
			FontSize:    node.Text.FontSize,
			FontFamily:  node.Text.FontFamily,
			Width:       node.Text.Width,
		})
	}
}

// Text box strokes outline the glyphs, not the box.
func (n *RenderNode) strokeForPath() string {
	if n.Text != nil {
		return ""
	}
	return n.Stroke
}

func (n *RenderNode) strokeWidthForPath() float64 {
	if n.Text != nil {
		return 0
	}
	return n.StrokeWidth
}

// FrameToJSON serializes a frame to JSON.
func FrameToJSON(f Frame) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// hitTest returns the topmost node whose local geometry contains the point.
func hitTest(nodes []*RenderNode, x, y float64) *RenderNode {
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		if node == nil {
			continue
		}
		lx, ly := node.World.Invert().TransformPoint(x, y)
		local := node.Local
		// Lines and paths may be degenerate in one axis; pad by half the stroke.
		pad := node.StrokeWidth / 2
		local.X -= pad
		local.Y -= pad
		local.Width += 2 * pad
		local.Height += 2 * pad
		if local.Contains(lx, ly) {
			return node
		}
	}
	return nil
}
