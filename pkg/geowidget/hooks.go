package geowidget

import (
	"github.com/recera/geowidget/pkg/scheduler"
	"github.com/recera/geowidget/pkg/vango"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

const slotPrefix = "geowidget:"

// Use returns the widget kept in fiber under key. The first call creates it
// and later calls pass props to Update. Removing the fiber unmounts the
// widget. Without a fiber a fresh, unmounted widget is returned.
func Use(fiber *scheduler.Fiber, key string, props Props, opts ...Option) *Widget {
	if fiber == nil {
		return New(props, opts...)
	}

	created := false
	w := fiber.Slot(slotPrefix+key, func() any {
		created = true
		return New(props, opts...)
	}).(*Widget)

	if created {
		fiber.OnDispose(w.Unmount)
	} else {
		w.Update(props)
	}
	return w
}

// Component renders the widget stored for key in the context's fiber, or in
// the fiber currently rendering when ctx carries none. A static context
// renders markup only and keeps no widget.
func Component(ctx *vango.Context, key string, props Props, opts ...Option) *vdom.VNode {
	if ctx != nil && ctx.IsStatic() {
		return New(props, opts...).Render()
	}
	var fiber *scheduler.Fiber
	if ctx != nil {
		fiber = ctx.Fiber
	}
	if fiber == nil {
		fiber = scheduler.Current()
	}
	return Use(fiber, key, props, opts...).Render()
}
