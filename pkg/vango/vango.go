package vango

import (
	"github.com/recera/geowidget/pkg/scheduler"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

// Component represents a UI component
type Component interface {
	Render(ctx *Context) *vdom.VNode
}

// RenderMode represents the rendering mode for a component
type RenderMode uint8

const (
	// ModeSSRStatic - Server static pass, no interactivity
	ModeSSRStatic RenderMode = iota
	// ModeClient - WASM owns state, full client-side interactivity
	ModeClient
)

// Context provides component context
type Context struct {
	Fiber     *scheduler.Fiber
	Scheduler *scheduler.Scheduler
	Mode      RenderMode
}

// NewContext creates a new context with the given mode
func NewContext(mode RenderMode) *Context {
	return &Context{Mode: mode}
}

// WithScheduler sets the scheduler for this context
func (c *Context) WithScheduler(s *scheduler.Scheduler) *Context {
	c.Scheduler = s
	return c
}

// WithFiber sets the fiber for this context
func (c *Context) WithFiber(f *scheduler.Fiber) *Context {
	c.Fiber = f
	return c
}

// IsStatic returns true if this is static SSR
func (c *Context) IsStatic() bool {
	return c.Mode == ModeSSRStatic
}

// FC creates a functional component
func FC(render func(ctx *Context) *vdom.VNode) Component {
	return &funcComponent{render: render}
}

type funcComponent struct {
	render func(ctx *Context) *vdom.VNode
}

func (c *funcComponent) Render(ctx *Context) *vdom.VNode {
	return c.render(ctx)
}

// Element shortcuts for common HTML elements
var (
	P = func(props vdom.Props, children ...*vdom.VNode) *vdom.VNode {
		return vdom.NewElement("p", props, children...)
	}
	Main = func(props vdom.Props, children ...*vdom.VNode) *vdom.VNode {
		return vdom.NewElement("main", props, children...)
	}
	Text = vdom.NewText
)
