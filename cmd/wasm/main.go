//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/surface"
)

var (
	editor *engine.Editor
	surf   *surface.Surface

	// JS callbacks registered through on(event, fn).
	callbacks = map[string]js.Value{}
)

// framePresenter hands every rendered frame to the "frame" callback as JSON.
type framePresenter struct{}

func (framePresenter) Present(frame surface.Frame) {
	cb, ok := callbacks["frame"]
	if !ok {
		return
	}
	data, err := surface.FrameToJSON(frame)
	if err != nil {
		return
	}
	cb.Invoke(data)
}

func emit(event string, args ...interface{}) {
	if cb, ok := callbacks[event]; ok {
		cb.Invoke(args...)
	}
}

func main() {
	listener := engine.ListenerFuncs{
		OnAfterRender:      func(n int) { emit("after:render", n) },
		OnSelectionCreated: func() { emit("selection:created") },
		OnSelectionCleared: func() { emit("selection:cleared") },
		OnSelectionUpdated: func() { emit("selection:updated") },
	}
	editor, surf = engine.NewWithSurface(800, 600, listener, engine.DefaultOptions())
	surf.SetPresenter(framePresenter{})

	api := js.Global().Get("Object").New()

	api.Set("on", js.FuncOf(on))
	api.Set("tick", js.FuncOf(tick))

	// --- Shapes ---
	api.Set("addLine", js.FuncOf(addShape(editor.AddLine)))
	api.Set("addCircle", js.FuncOf(addShape(editor.AddCircle)))
	api.Set("addRect", js.FuncOf(addShape(editor.AddRect)))
	api.Set("addTriangle", js.FuncOf(addShape(editor.AddTriangle)))
	api.Set("addTextbox", js.FuncOf(addShape(editor.AddTextbox)))

	// --- Pen ---
	api.Set("setFill", js.FuncOf(withString(editor.SetFill)))
	api.Set("setStroke", js.FuncOf(withString(editor.SetStroke)))
	api.Set("setTextFill", js.FuncOf(withString(editor.SetTextFill)))
	api.Set("setStrokeWidth", js.FuncOf(withFloat(editor.SetStrokeWidth)))
	api.Set("setOpacity", js.FuncOf(withFloat(editor.SetOpacity)))
	api.Set("setOpacityPerc", js.FuncOf(withFloat(editor.SetOpacityPerc)))

	// --- Selection ---
	api.Set("setFillSelected", js.FuncOf(noArgs(editor.SetFillSelected)))
	api.Set("setFillSelectedExt", js.FuncOf(withString(editor.SetFillSelectedExt)))
	api.Set("setStrokeSelected", js.FuncOf(noArgs(editor.SetStrokeSelected)))
	api.Set("setStrokeWidthSelected", js.FuncOf(noArgs(editor.SetStrokeWidthSelected)))
	api.Set("setOpacitySelected", js.FuncOf(noArgs(editor.SetOpacitySelected)))
	api.Set("clearSelected", js.FuncOf(noArgs(editor.ClearSelected)))
	api.Set("deactivateAll", js.FuncOf(noArgs(editor.DeactivateAll)))

	// --- Drawing ---
	api.Set("enableDrawingMode", js.FuncOf(enableDrawingMode))
	api.Set("isDrawingMode", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return editor.IsDrawingMode()
	}))
	api.Set("setFreeDrawingBrush", js.FuncOf(setFreeDrawingBrush))
	api.Set("setBrushColor", js.FuncOf(withString(editor.SetBrushColor)))
	api.Set("setBrushWidth", js.FuncOf(withFloat(editor.SetBrushWidth)))

	// --- Scene ---
	api.Set("countObjects", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return editor.CountObjects()
	}))
	api.Set("hasTextObjects", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return editor.HasTextObjects()
	}))
	api.Set("clear", js.FuncOf(noArgs(editor.Clear)))
	api.Set("setWidth", js.FuncOf(withFloat(editor.SetWidth)))
	api.Set("setHeight", js.FuncOf(withFloat(editor.SetHeight)))
	api.Set("setBackgroundImage", js.FuncOf(withString(editor.SetBackgroundImage)))
	api.Set("loadSample", js.FuncOf(loadSample))

	// --- Serialization ---
	api.Set("toJSON", js.FuncOf(toJSON))
	api.Set("loadJSON", js.FuncOf(loadJSON))
	api.Set("toSVG", js.FuncOf(toSVG))
	api.Set("loadSVG", js.FuncOf(loadSVG))

	// --- Pointer gestures ---
	api.Set("selectAt", js.FuncOf(selectAt))
	api.Set("scaleActive", js.FuncOf(scaleActive))
	api.Set("moveActive", js.FuncOf(moveActive))
	api.Set("endTransform", js.FuncOf(noArgs(surf.EndTransform)))
	api.Set("commitStroke", js.FuncOf(commitStroke))

	js.Global().Set("sketchboard", api)
	js.Global().Set("sketchboardWasmReady", js.ValueOf(true))

	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

func on(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || args[1].Type() != js.TypeFunction {
		return missing("event name and callback")
	}
	callbacks[args[0].String()] = args[1]
	return nil
}

// tick renders if a render was requested since the last tick. Call it from
// requestAnimationFrame.
func tick(this js.Value, args []js.Value) interface{} {
	return surf.Flush()
}

func addShape(fn func() *document.Shape) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		return fn().ID
	}
}

func noArgs(fn func()) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	}
}

func withString(fn func(string)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return missing("value")
		}
		fn(args[0].String())
		return nil
	}
}

func withFloat(fn func(float64)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return missing("value")
		}
		fn(args[0].Float())
		return nil
	}
}

func enableDrawingMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("flag")
	}
	editor.EnableDrawingMode(args[0].Truthy())
	return nil
}

func setFreeDrawingBrush(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("brush name")
	}
	color := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		color = args[1].String()
	}
	width := editor.Pen().StrokeWidth
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		width = args[2].Float()
	}
	if err := editor.SetFreeDrawingBrush(args[0].String(), color, width); err != nil {
		return errorResult(err)
	}
	return nil
}

func loadSample(this js.Value, args []js.Value) interface{} {
	snap := document.NewSampleSnapshot(surf.Width(), surf.Height())
	if err := editor.LoadSnapshot(snap); err != nil {
		return errorResult(err)
	}
	return nil
}

func toJSON(this js.Value, args []js.Value) interface{} {
	out, err := editor.ToJSON()
	if err != nil {
		return errorResult(err)
	}
	return out
}

func loadJSON(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("snapshot JSON")
	}
	if err := editor.LoadJSON(args[0].String()); err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func toSVG(this js.Value, args []js.Value) interface{} {
	out, err := editor.ToSVG()
	if err != nil {
		return errorResult(err)
	}
	return out
}

func loadSVG(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("SVG markup")
	}
	n, err := editor.LoadSVG(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	return n
}

func selectAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	shape := surf.SelectAt(args[0].Float(), args[1].Float())
	if shape == nil {
		return nil
	}
	return shape.ID
}

func scaleActive(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	surf.ScaleActive(args[0].Float(), args[1].Float())
	return nil
}

func moveActive(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	surf.MoveActive(args[0].Float(), args[1].Float())
	return nil
}

// commitStroke takes the captured pointer samples as a JSON array of
// {x, y} objects.
func commitStroke(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("points JSON")
	}
	var points []surface.Point
	if err := json.Unmarshal([]byte(args[0].String()), &points); err != nil {
		return errorResult(err)
	}
	shape := surf.CommitStroke(points)
	if shape == nil {
		return nil
	}
	return shape.ID
}
