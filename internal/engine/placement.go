package engine

const (
	DefaultPlacementStart     = 20
	DefaultPlacementIncrement = 20
	// DefaultPlacementMargin is how much of a new shape must stay visible.
	DefaultPlacementMargin = 50
)

// Cursor is the insertion point for programmatically added shapes. It
// steps diagonally and wraps back to its start corner before a shape would
// be placed with less than Margin visible.
type Cursor struct {
	StartLeft float64 `json:"startLeft"`
	StartTop  float64 `json:"startTop"`
	Increment float64 `json:"increment"`
	Margin    float64 `json:"margin"`

	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

func NewCursor(startLeft, startTop, increment, margin float64) Cursor {
	return Cursor{
		StartLeft: startLeft,
		StartTop:  startTop,
		Increment: increment,
		Margin:    margin,
		Left:      startLeft,
		Top:       startTop,
	}
}

// Next returns the position for a new shape on a w×h surface and advances
// the cursor.
func (c *Cursor) Next(w, h float64) (float64, float64) {
	// The surface may have shrunk since the cursor last advanced.
	if c.outside(c.Left, c.Top, w, h) {
		c.Reset()
	}
	left, top := c.Left, c.Top

	nextLeft, nextTop := left+c.Increment, top+c.Increment
	if c.outside(nextLeft, nextTop, w, h) {
		c.Reset()
	} else {
		c.Left, c.Top = nextLeft, nextTop
	}
	return left, top
}

// Reset moves the cursor back to its start corner.
func (c *Cursor) Reset() {
	c.Left, c.Top = c.StartLeft, c.StartTop
}

func (c *Cursor) outside(left, top, w, h float64) bool {
	return left+c.Margin > w || top+c.Margin > h
}
