// Package geowidgettest provides in-memory stand-ins for the geowidget
// element and its control API.
package geowidgettest

import (
	"context"
	"sync"

	"github.com/recera/geowidget/pkg/geowidget"
)

type listener struct {
	ctx       context.Context
	eventType string
	fn        func(geowidget.Event)
}

// Element is a fake event target. Listeners whose context is done are
// skipped and dropped, like listeners removed by an aborted signal.
type Element struct {
	mu        sync.Mutex
	listeners []listener
	added     int
}

var _ geowidget.Target = (*Element)(nil)

// NewElement returns an element with no listeners
func NewElement() *Element {
	return &Element{}
}

func (e *Element) AddEventListener(ctx context.Context, eventType string, fn func(geowidget.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener{ctx: ctx, eventType: eventType, fn: fn})
	e.added++
}

// Dispatch delivers ev synchronously to the live listeners of its type
func (e *Element) Dispatch(ev geowidget.Event) {
	e.mu.Lock()
	e.prune()
	var fns []func(geowidget.Event)
	for _, l := range e.listeners {
		if l.eventType == ev.Type {
			fns = append(fns, l.fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Ready dispatches the ready event carrying api
func (e *Element) Ready(api geowidget.ControlAPI) {
	e.Dispatch(geowidget.Event{
		Type:   geowidget.ReadyEvent,
		Detail: geowidget.ReadyDetail{API: api},
	})
}

// Listeners returns the number of live listeners for eventType
func (e *Element) Listeners(eventType string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prune()
	n := 0
	for _, l := range e.listeners {
		if l.eventType == eventType {
			n++
		}
	}
	return n
}

// Added returns how many listeners were ever installed
func (e *Element) Added() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.added
}

func (e *Element) prune() {
	live := e.listeners[:0]
	for _, l := range e.listeners {
		if l.ctx.Err() == nil {
			live = append(live, l)
		}
	}
	e.listeners = live
}

// Call is one recorded API invocation
type Call struct {
	Method string
	Args   []any
}

// API is a fake control API recording every call
type API struct {
	mu       sync.Mutex
	calls    []Call
	callback func(geowidget.SelectedPoint)
}

var _ geowidget.ControlAPI = (*API)(nil)

// NewAPI returns an API with no recorded calls
func NewAPI() *API {
	return &API{}
}

func (a *API) record(method string, args ...any) {
	a.mu.Lock()
	a.calls = append(a.calls, Call{Method: method, Args: args})
	a.mu.Unlock()
}

// Calls returns a copy of all recorded calls
func (a *API) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

// CallsTo returns the recorded calls of method
func (a *API) CallsTo(method string) []Call {
	var out []Call
	for _, c := range a.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Select simulates the user picking p. It reports whether a callback was
// registered.
func (a *API) Select(p geowidget.SelectedPoint) bool {
	a.mu.Lock()
	cb := a.callback
	a.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(p)
	return true
}

// AddPointSelectedCallback replaces the registered callback
func (a *API) AddPointSelectedCallback(fn func(geowidget.SelectedPoint)) {
	a.record("addPointSelectedCallback")
	a.mu.Lock()
	a.callback = fn
	a.mu.Unlock()
}

func (a *API) ChangeLanguage(lang geowidget.Language) {
	a.record(geowidget.MethodChangeLanguage, lang)
}

func (a *API) ChangePointsType(types []geowidget.PointType) {
	a.record(geowidget.MethodChangePointsType, types)
}

func (a *API) ChangePosition(pos geowidget.Position, zoom ...int) {
	args := []any{pos}
	for _, z := range zoom {
		args = append(args, z)
	}
	a.record(geowidget.MethodChangePosition, args...)
}

func (a *API) ChangeZoom(zoom int) {
	a.record(geowidget.MethodChangeZoom, zoom)
}

func (a *API) ClearSearch() {
	a.record(geowidget.MethodClearSearch)
}

func (a *API) HideSearchResults() {
	a.record(geowidget.MethodHideSearchResults)
}

func (a *API) Search(query string) {
	a.record(geowidget.MethodSearch, query)
}

func (a *API) SelectPoint(name string) {
	a.record(geowidget.MethodSelectPoint, name)
}

func (a *API) ShowPoint(name string) {
	a.record(geowidget.MethodShowPoint, name)
}

func (a *API) ShowPointDetails(name string) {
	a.record(geowidget.MethodShowPointDetails, name)
}
