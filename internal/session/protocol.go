package session

import (
	"encoding/json"

	"github.com/inamate/sketchboard/internal/surface"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Server -> client
	TypeRenderFrame      = "render.frame"
	TypeSelectionCreated = "selection.created"
	TypeSelectionCleared = "selection.cleared"
	TypeSelectionUpdated = "selection.updated"
	TypeEditorResult     = "editor.result"

	// Client -> server
	TypeEditorCall    = "editor.call"
	TypePointerSelect = "pointer.select"
	TypePointerScale  = "pointer.scale"
	TypePointerMove   = "pointer.move"
	TypePointerEnd    = "pointer.end"
	TypePointerStroke = "pointer.stroke"
)

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// SelectionPayload lists the ids of the active shapes after a selection
// change.
type SelectionPayload struct {
	ObjectIDs []string `json:"objectIds"`
}

// CallPayload invokes one editor operation by name. Args are positional.
type CallPayload struct {
	Method string            `json:"method"`
	Args   []json.RawMessage `json:"args,omitempty"`
}

type ResultPayload struct {
	Method string `json:"method"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PointerPayload carries the coordinates of a pointer gesture. Which
// fields are read depends on the message type.
type PointerPayload struct {
	X      float64         `json:"x,omitempty"`
	Y      float64         `json:"y,omitempty"`
	ScaleX float64         `json:"scaleX,omitempty"`
	ScaleY float64         `json:"scaleY,omitempty"`
	DX     float64         `json:"dx,omitempty"`
	DY     float64         `json:"dy,omitempty"`
	Points []surface.Point `json:"points,omitempty"`
}
