//go:build js && wasm

package geowidget

import (
	"context"
	"syscall/js"
)

type jsElement struct {
	v js.Value
}

func defaultBinder(ref any) Target {
	v, ok := ref.(js.Value)
	if !ok || v.IsNull() || v.IsUndefined() {
		return nil
	}
	return jsElement{v: v}
}

// AddEventListener registers fn with an AbortController signal that is
// aborted when ctx is done.
func (e jsElement) AddEventListener(ctx context.Context, eventType string, fn func(Event)) {
	abort := js.Global().Get("AbortController").New()
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := Event{Type: eventType}
		if len(args) > 0 {
			ev.Detail = eventDetail(eventType, args[0].Get("detail"))
		}
		fn(ev)
		return nil
	})

	opts := js.Global().Get("Object").New()
	opts.Set("signal", abort.Get("signal"))
	e.v.Call("addEventListener", eventType, cb, opts)

	context.AfterFunc(ctx, func() {
		abort.Call("abort")
		cb.Release()
	})
}

func eventDetail(eventType string, detail js.Value) any {
	if eventType != ReadyEvent || detail.Type() != js.TypeObject {
		return detail
	}
	api := detail.Get("api")
	if api.Type() != js.TypeObject {
		return detail
	}
	return ReadyDetail{API: &jsAPI{v: api}}
}

// jsAPI forwards to the widget's JavaScript control object
type jsAPI struct {
	v js.Value
}

func (a *jsAPI) ChangeLanguage(lang Language) {
	a.v.Call(MethodChangeLanguage, string(lang))
}

func (a *jsAPI) ChangePointsType(types []PointType) {
	arr := make([]any, len(types))
	for i, t := range types {
		arr[i] = string(t)
	}
	a.v.Call(MethodChangePointsType, arr)
}

func (a *jsAPI) ChangePosition(pos Position, zoom ...int) {
	p := map[string]any{"latitude": pos.Latitude, "longitude": pos.Longitude}
	if len(zoom) > 0 {
		a.v.Call(MethodChangePosition, p, zoom[0])
		return
	}
	a.v.Call(MethodChangePosition, p)
}

func (a *jsAPI) ChangeZoom(zoom int) {
	a.v.Call(MethodChangeZoom, zoom)
}

func (a *jsAPI) ClearSearch() {
	a.v.Call(MethodClearSearch)
}

func (a *jsAPI) HideSearchResults() {
	a.v.Call(MethodHideSearchResults)
}

func (a *jsAPI) Search(query string) {
	a.v.Call(MethodSearch, query)
}

func (a *jsAPI) SelectPoint(name string) {
	a.v.Call(MethodSelectPoint, name)
}

func (a *jsAPI) ShowPoint(name string) {
	a.v.Call(MethodShowPoint, name)
}

func (a *jsAPI) ShowPointDetails(name string) {
	a.v.Call(MethodShowPointDetails, name)
}

// AddPointSelectedCallback wraps fn in a JS function that decodes the point
// through JSON. The function lives as long as the widget element.
func (a *jsAPI) AddPointSelectedCallback(fn func(SelectedPoint)) {
	stringify := js.Global().Get("JSON").Get("stringify")
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		p, err := DecodePoint([]byte(stringify.Invoke(args[0]).String()))
		if err != nil {
			js.Global().Get("console").Call("warn", "geowidget: "+err.Error())
			return nil
		}
		fn(p)
		return nil
	})
	a.v.Call("addPointSelectedCallback", cb)
}

// headLoader appends the assets to document.head unless already present
type headLoader struct{}

func defaultAssetLoader() AssetLoader {
	return headLoader{}
}

func (headLoader) Request(a Assets) {
	doc := js.Global().Get("document")
	head := doc.Get("head")

	if a.Stylesheet != "" && doc.Call("querySelector", `link[href="`+a.Stylesheet+`"]`).IsNull() {
		link := doc.Call("createElement", "link")
		link.Set("rel", "stylesheet")
		link.Set("href", a.Stylesheet)
		head.Call("appendChild", link)
	}
	if a.Script != "" && doc.Call("querySelector", `script[src="`+a.Script+`"]`).IsNull() {
		script := doc.Call("createElement", "script")
		script.Set("src", a.Script)
		script.Set("defer", true)
		head.Call("appendChild", script)
	}
}
