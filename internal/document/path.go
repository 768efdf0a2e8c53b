package document

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrPathSyntax = errors.New("path data syntax error")

// Bounds is an axis-aligned extent accumulated from points.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	set                    bool
}

// Add extends the bounds to include (x, y).
func (b *Bounds) Add(x, y float64) {
	if !b.set {
		b.MinX, b.MaxX = x, x
		b.MinY, b.MaxY = y, y
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

func (b Bounds) Empty() bool { return !b.set }

// PathBounds returns the control-point hull of path commands.
func PathBounds(cmds []PathCommand) Bounds {
	var b Bounds
	for _, cmd := range cmds {
		if len(cmd) < 3 {
			continue
		}
		for i := 1; i+1 < len(cmd); i += 2 {
			b.Add(ToFloat64(cmd[i]), ToFloat64(cmd[i+1]))
		}
	}
	return b
}

// TranslatePath shifts every coordinate of cmds by (dx, dy).
func TranslatePath(cmds []PathCommand, dx, dy float64) []PathCommand {
	out := make([]PathCommand, len(cmds))
	for i, cmd := range cmds {
		c := make(PathCommand, len(cmd))
		copy(c, cmd)
		for j := 1; j+1 < len(c); j += 2 {
			c[j] = ToFloat64(c[j]) + dx
			c[j+1] = ToFloat64(c[j+1]) + dy
		}
		out[i] = c
	}
	return out
}

// ToFloat64 converts a decoded JSON number to float64.
func ToFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// FormatPathData renders commands as an SVG path "d" attribute.
func FormatPathData(cmds []PathCommand) string {
	var sb strings.Builder
	for i, cmd := range cmds {
		if len(cmd) == 0 {
			continue
		}
		op, ok := cmd[0].(string)
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(op)
		for _, v := range cmd[1:] {
			sb.WriteByte(' ')
			sb.WriteString(FormatNumber(ToFloat64(v)))
		}
	}
	return sb.String()
}

// FormatNumber writes v with the shortest exact representation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var pathArity = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// ParsePathData parses an SVG path "d" attribute into absolute M, L, Q, C
// and Z commands. Arcs are reduced to a line to their end point.
func ParsePathData(d string) ([]PathCommand, error) {
	p := pathScanner{s: d}
	var (
		out            []PathCommand
		curX, curY     float64
		startX, startY float64
		ctrlX, ctrlY   float64
		prevOp         byte
	)

	var op byte
	for {
		p.skipSeparators()
		if p.done() {
			break
		}
		if c := p.peek(); isPathLetter(c) {
			op = c
			p.pos++
		} else if op == 0 {
			return nil, fmt.Errorf("%w: expected command at offset %d", ErrPathSyntax, p.pos)
		}

		upper := op &^ 0x20
		arity, ok := pathArity[upper]
		if !ok {
			return nil, fmt.Errorf("%w: unknown command %q", ErrPathSyntax, op)
		}
		rel := op != upper

		if upper == 'Z' {
			out = append(out, PathCommand{"Z"})
			curX, curY = startX, startY
			prevOp = 'Z'
			op = 0
			continue
		}

		args := make([]float64, arity)
		for i := range args {
			v, err := p.number()
			if err != nil {
				return nil, err
			}
			args[i] = v
		}

		switch upper {
		case 'M':
			x, y := args[0], args[1]
			if rel {
				x, y = x+curX, y+curY
			}
			out = append(out, PathCommand{"M", x, y})
			curX, curY = x, y
			startX, startY = x, y
			// Subsequent pairs are implicit line-tos.
			if rel {
				op = 'l'
			} else {
				op = 'L'
			}
		case 'L', 'T':
			x, y := args[0], args[1]
			if rel {
				x, y = x+curX, y+curY
			}
			if upper == 'T' {
				cx, cy := curX, curY
				if prevOp == 'Q' {
					cx, cy = 2*curX-ctrlX, 2*curY-ctrlY
				}
				out = append(out, PathCommand{"Q", cx, cy, x, y})
				ctrlX, ctrlY = cx, cy
				upper = 'Q'
			} else {
				out = append(out, PathCommand{"L", x, y})
			}
			curX, curY = x, y
		case 'H':
			x := args[0]
			if rel {
				x += curX
			}
			out = append(out, PathCommand{"L", x, curY})
			curX = x
		case 'V':
			y := args[0]
			if rel {
				y += curY
			}
			out = append(out, PathCommand{"L", curX, y})
			curY = y
		case 'C':
			if rel {
				for i := 0; i < 6; i += 2 {
					args[i] += curX
					args[i+1] += curY
				}
			}
			out = append(out, PathCommand{"C", args[0], args[1], args[2], args[3], args[4], args[5]})
			ctrlX, ctrlY = args[2], args[3]
			curX, curY = args[4], args[5]
		case 'S':
			if rel {
				for i := 0; i < 4; i += 2 {
					args[i] += curX
					args[i+1] += curY
				}
			}
			cx, cy := curX, curY
			if prevOp == 'C' {
				cx, cy = 2*curX-ctrlX, 2*curY-ctrlY
			}
			out = append(out, PathCommand{"C", cx, cy, args[0], args[1], args[2], args[3]})
			ctrlX, ctrlY = args[0], args[1]
			curX, curY = args[2], args[3]
			upper = 'C'
		case 'Q':
			if rel {
				for i := 0; i < 4; i += 2 {
					args[i] += curX
					args[i+1] += curY
				}
			}
			out = append(out, PathCommand{"Q", args[0], args[1], args[2], args[3]})
			ctrlX, ctrlY = args[0], args[1]
			curX, curY = args[2], args[3]
		case 'A':
			x, y := args[5], args[6]
			if rel {
				x, y = x+curX, y+curY
			}
			out = append(out, PathCommand{"L", x, y})
			curX, curY = x, y
		}
		prevOp = upper
	}
	return out, nil
}

func isPathLetter(c byte) bool {
	_, ok := pathArity[c&^0x20]
	return ok && ((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'))
}

type pathScanner struct {
	s   string
	pos int
}

func (p *pathScanner) done() bool { return p.pos >= len(p.s) }

func (p *pathScanner) peek() byte { return p.s[p.pos] }

func (p *pathScanner) skipSeparators() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r', ',':
			p.pos++
		default:
			return
		}
	}
}

// number scans one SVG number; "1.5.5" yields 1.5 then .5.
func (p *pathScanner) number() (float64, error) {
	p.skipSeparators()
	start := p.pos
	if p.pos < len(p.s) && (p.s[p.pos] == '-' || p.s[p.pos] == '+') {
		p.pos++
	}
	sawDot, sawDigit := false, false
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' && !sawDot:
			sawDot = true
		case (c == 'e' || c == 'E') && sawDigit:
			p.pos++
			if p.pos < len(p.s) && (p.s[p.pos] == '-' || p.s[p.pos] == '+') {
				p.pos++
			}
			for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
				p.pos++
			}
			return p.parse(start)
		default:
			if !sawDigit {
				return 0, fmt.Errorf("%w: expected number at offset %d", ErrPathSyntax, start)
			}
			return p.parse(start)
		}
		p.pos++
	}
	if !sawDigit {
		return 0, fmt.Errorf("%w: unexpected end of data", ErrPathSyntax)
	}
	return p.parse(start)
}

func (p *pathScanner) parse(start int) (float64, error) {
	v, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPathSyntax, err)
	}
	return v, nil
}
