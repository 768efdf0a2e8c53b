package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/engine"
)

var (
	ErrUnknownMethod  = errors.New("unknown method")
	ErrUnknownMessage = errors.New("unknown message type")
	ErrBadArguments   = errors.New("bad arguments")
)

type method func(ed *engine.Editor, args args) (any, error)

// methods maps the editor operations reachable through editor.call.
var methods = map[string]method{
	"addLine":     addShape((*engine.Editor).AddLine),
	"addCircle":   addShape((*engine.Editor).AddCircle),
	"addRect":     addShape((*engine.Editor).AddRect),
	"addTriangle": addShape((*engine.Editor).AddTriangle),
	"addTextbox":  addShape((*engine.Editor).AddTextbox),

	"setFill":        withString((*engine.Editor).SetFill),
	"setStroke":      withString((*engine.Editor).SetStroke),
	"setTextFill":    withString((*engine.Editor).SetTextFill),
	"setStrokeWidth": withFloat((*engine.Editor).SetStrokeWidth),
	"setOpacity":     withFloat((*engine.Editor).SetOpacity),
	"setOpacityPerc": withFloat((*engine.Editor).SetOpacityPerc),

	"setFillSelected":        noArgs((*engine.Editor).SetFillSelected),
	"setFillSelectedExt":     withString((*engine.Editor).SetFillSelectedExt),
	"setStrokeSelected":      noArgs((*engine.Editor).SetStrokeSelected),
	"setStrokeWidthSelected": noArgs((*engine.Editor).SetStrokeWidthSelected),
	"setOpacitySelected":     noArgs((*engine.Editor).SetOpacitySelected),
	"clearSelected":          noArgs((*engine.Editor).ClearSelected),
	"deactivateAll":          noArgs((*engine.Editor).DeactivateAll),

	"enableDrawingMode": func(ed *engine.Editor, a args) (any, error) {
		on, err := a.bool(0)
		if err != nil {
			return nil, err
		}
		ed.EnableDrawingMode(on)
		return nil, nil
	},
	"isDrawingMode": func(ed *engine.Editor, _ args) (any, error) {
		return ed.IsDrawingMode(), nil
	},
	"setFreeDrawingBrush": func(ed *engine.Editor, a args) (any, error) {
		name, err := a.string(0)
		if err != nil {
			return nil, err
		}
		color, err := a.optString(1)
		if err != nil {
			return nil, err
		}
		width, err := a.optFloat(2, ed.Pen().StrokeWidth)
		if err != nil {
			return nil, err
		}
		return nil, ed.SetFreeDrawingBrush(name, color, width)
	},
	"setBrushColor": withString((*engine.Editor).SetBrushColor),
	"setBrushWidth": withFloat((*engine.Editor).SetBrushWidth),

	"countObjects": func(ed *engine.Editor, _ args) (any, error) {
		return ed.CountObjects(), nil
	},
	"hasTextObjects": func(ed *engine.Editor, _ args) (any, error) {
		return ed.HasTextObjects(), nil
	},
	"clear":              noArgs((*engine.Editor).Clear),
	"setWidth":           withFloat((*engine.Editor).SetWidth),
	"setHeight":          withFloat((*engine.Editor).SetHeight),
	"setBackgroundImage": withString((*engine.Editor).SetBackgroundImage),

	"toJSON": func(ed *engine.Editor, _ args) (any, error) {
		return ed.ToJSON()
	},
	"loadJSON": func(ed *engine.Editor, a args) (any, error) {
		data, err := a.string(0)
		if err != nil {
			return nil, err
		}
		return nil, ed.LoadJSON(data)
	},
	"toSVG": func(ed *engine.Editor, _ args) (any, error) {
		return ed.ToSVG()
	},
	"loadSVG": func(ed *engine.Editor, a args) (any, error) {
		data, err := a.string(0)
		if err != nil {
			return nil, err
		}
		return ed.LoadSVG(data)
	},
}

// Call invokes the editor operation registered under name.
func (s *Session) Call(ctx context.Context, name string, raw []json.RawMessage) (any, error) {
	m, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	var result any
	err := s.Do(ctx, func(ed *engine.Editor) error {
		var err error
		result, err = m(ed, args(raw))
		return err
	})
	return result, err
}

// Handle processes one client message. It returns the reply to send back
// to the sender, if any.
func (s *Session) Handle(ctx context.Context, msg *Message) (*Message, error) {
	switch msg.Type {
	case TypeEditorCall:
		var call CallPayload
		if err := json.Unmarshal(msg.Payload, &call); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
		}
		res := ResultPayload{Method: call.Method}
		result, err := s.Call(ctx, call.Method, call.Args)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Result = result
		}
		payload, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
		return &Message{Type: TypeEditorResult, SessionID: s.ID, Seq: msg.Seq, Payload: payload}, nil

	case TypePointerSelect, TypePointerScale, TypePointerMove, TypePointerEnd, TypePointerStroke:
		var p PointerPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadArguments, err)
			}
		}
		return nil, s.pointer(ctx, msg.Type, p)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", msg.ClientID)
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

func (s *Session) pointer(ctx context.Context, msgType string, p PointerPayload) error {
	return s.exec(ctx, func() error {
		switch msgType {
		case TypePointerSelect:
			s.surface.SelectAt(p.X, p.Y)
		case TypePointerScale:
			s.surface.ScaleActive(p.ScaleX, p.ScaleY)
		case TypePointerMove:
			s.surface.MoveActive(p.DX, p.DY)
		case TypePointerEnd:
			s.surface.EndTransform()
		case TypePointerStroke:
			s.surface.CommitStroke(p.Points)
		}
		return nil
	})
}

func addShape(fn func(*engine.Editor) *document.Shape) method {
	return func(ed *engine.Editor, _ args) (any, error) {
		return fn(ed).ID, nil
	}
}

func noArgs(fn func(*engine.Editor)) method {
	return func(ed *engine.Editor, _ args) (any, error) {
		fn(ed)
		return nil, nil
	}
}

func withString(fn func(*engine.Editor, string)) method {
	return func(ed *engine.Editor, a args) (any, error) {
		v, err := a.string(0)
		if err != nil {
			return nil, err
		}
		fn(ed, v)
		return nil, nil
	}
}

func withFloat(fn func(*engine.Editor, float64)) method {
	return func(ed *engine.Editor, a args) (any, error) {
		v, err := a.float(0)
		if err != nil {
			return nil, err
		}
		fn(ed, v)
		return nil, nil
	}
}

type args []json.RawMessage

func (a args) decode(i int, v any) error {
	if i >= len(a) {
		return fmt.Errorf("%w: missing argument %d", ErrBadArguments, i)
	}
	if err := json.Unmarshal(a[i], v); err != nil {
		return fmt.Errorf("%w: argument %d: %v", ErrBadArguments, i, err)
	}
	return nil
}

func (a args) string(i int) (string, error) {
	var v string
	err := a.decode(i, &v)
	return v, err
}

func (a args) float(i int) (float64, error) {
	var v float64
	err := a.decode(i, &v)
	return v, err
}

func (a args) bool(i int) (bool, error) {
	var v bool
	err := a.decode(i, &v)
	return v, err
}

func (a args) optString(i int) (string, error) {
	if i >= len(a) {
		return "", nil
	}
	return a.string(i)
}

func (a args) optFloat(i int, def float64) (float64, error) {
	if i >= len(a) {
		return def, nil
	}
	return a.float(i)
}
