// Package geowidget bridges the InPost Geowidget custom element into vango.
//
// The widget is an externally hosted script that upgrades the
// <inpost-geowidget> element. Once initialized, the element dispatches a
// single "inpost.geowidget.init" event whose detail carries the control API.
// This package renders the element, listens for that event, registers the
// host's selection callback on the API and exposes a stable [Handle] that
// forwards imperative calls to the API once it exists.
//
// A Widget moves through three listener states:
//
//	Unattached -> Listening -> Ready
//
// Listening starts when the element ref arrives. Ready is reached on the
// first ready event of an attachment; the selection callback is registered
// exactly then. Every Update cancels the current subscription before a new
// one is installed, and Unmount cancels it for good.
//
// Handle methods called before Ready are silently dropped:
//
//	w := geowidget.New(geowidget.Props{
//	    Token:   token,
//	    OnPoint: func(p geowidget.SelectedPoint) { log.Println(p.Name) },
//	    Ref:     func(h geowidget.Handle) { picker = h },
//	})
//	root := w.Render()
//	...
//	picker.Search("Kraków") // no-op until the widget is ready
//
// Note that the selection callback is registered only once per readiness.
// Passing a different OnPoint after the widget became ready does not reach
// the widget; the first callback stays registered.
package geowidget
