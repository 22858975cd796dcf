package geowidget

import (
	"log/slog"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

// Option configures a Widget
type Option func(*Widget)

// WithLogger sets the logger used for lifecycle messages
func WithLogger(log *slog.Logger) Option {
	return func(w *Widget) {
		if log != nil {
			w.log = log
		}
	}
}

// WithBinder overrides how ref values are turned into event targets
func WithBinder(b Binder) Option {
	return func(w *Widget) {
		if b != nil {
			w.bind = b
		}
	}
}

// WithAssetLoader sets the loader asked for the assets on every mount
func WithAssetLoader(l AssetLoader) Option {
	return func(w *Widget) {
		if l != nil {
			w.loader = l
		}
	}
}

// WithAssets overrides the production asset URLs
func WithAssets(a Assets) Option {
	return func(w *Widget) {
		w.assets = a
	}
}

// WithReadyHook sets fn to run each time an attachment becomes ready
func WithReadyHook(fn func()) Option {
	return func(w *Widget) {
		w.listener.onReady = fn
	}
}

// Widget is one mounted geowidget. Render, Update and Unmount are called from
// the UI loop; the Handle may be used from any goroutine.
type Widget struct {
	props    Props
	cell     apiCell
	handle   *handle
	listener readyListener

	target  Target
	mounted bool
	// elements currently holding the ref
	live int

	bind   Binder
	loader AssetLoader
	assets Assets
	log    *slog.Logger
}

// New creates an unmounted widget
func New(props Props, opts ...Option) *Widget {
	w := &Widget{
		props:  props.withDefaults(),
		bind:   defaultBinder,
		loader: defaultAssetLoader(),
		assets: AssetsFor(Production),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.handle = &handle{cell: &w.cell}
	w.listener.cell = &w.cell
	w.listener.log = w.log
	return w
}

// Render builds the container and the custom element. The element's ref
// prop drives mounting and unmounting.
func (w *Widget) Render() *vdom.VNode {
	p := w.props

	attrs := make(vdom.Props, len(p.Attrs)+4)
	for k, v := range p.Attrs {
		attrs[k] = v
	}
	attrs["token"] = p.Token
	attrs["language"] = string(p.Language)
	attrs["config"] = string(p.Config)
	attrs["ref"] = vdom.RefFunc(w.ref)

	var box vdom.Props
	if c := p.Container; c != nil {
		box = make(vdom.Props, len(c.Attrs)+1)
		for k, v := range c.Attrs {
			box[k] = v
		}
		if c.Class != "" {
			box["class"] = c.Class
		}
	}

	return vdom.NewElement("div", box, vdom.NewElement(TagName, attrs))
}

// Update replaces the props. On a mounted widget the ready subscription is
// re-established so the new callback is used if the widget has not become
// ready yet. The previous Ref receives nil and the new Ref receives the
// handle, as a host ref does on every render.
func (w *Widget) Update(props Props) {
	prev := w.props.Ref
	w.props = props.withDefaults()
	if !w.mounted {
		return
	}
	w.listener.attach(w.target, w.props.OnPoint)
	if prev != nil {
		prev(nil)
	}
	if w.props.Ref != nil {
		w.props.Ref(w.handle)
	}
}

// Handle returns the imperative handle. It is the same value for the whole
// life of the widget.
func (w *Widget) Handle() Handle {
	return w.handle
}

// State reports the readiness of the current attachment
func (w *Widget) State() ListenerState {
	return w.listener.State()
}

// Ready reports whether a control API is available
func (w *Widget) Ready() bool {
	return w.cell.load() != nil
}

// Mounted reports whether the widget is attached to an element
func (w *Widget) Mounted() bool {
	return w.mounted
}

// Props returns the current props with defaults applied
func (w *Widget) Props() Props {
	return w.props
}

// ref mounts on the newest element. A null reference unmounts only once
// every element that received the ref has released it, so a replacement
// that creates the new element before removing the old one stays mounted.
func (w *Widget) ref(el vdom.ElementRef) {
	target := w.bind(el)
	if target == nil {
		if w.live > 0 {
			w.live--
		}
		if w.live == 0 {
			w.Unmount()
		}
		return
	}
	w.live++
	w.Mount(target)
}

// Mount attaches the widget to target. Appliers reach it through the ref
// prop; hosts that manage elements themselves may call it directly.
func (w *Widget) Mount(target Target) {
	if target == nil {
		w.log.Debug("geowidget: mount without element")
		return
	}
	if w.mounted {
		w.Unmount()
	}
	w.target = target
	w.mounted = true
	w.loader.Request(w.assets)
	w.listener.attach(target, w.props.OnPoint)
	if w.props.Ref != nil {
		w.props.Ref(w.handle)
	}
}

// Unmount cancels the ready subscription and forgets the control API.
// The host ref receives nil.
func (w *Widget) Unmount() {
	if !w.mounted {
		return
	}
	w.listener.detach()
	w.cell.clear()
	w.target = nil
	w.mounted = false
	if w.props.Ref != nil {
		w.props.Ref(nil)
	}
	w.log.Debug("geowidget: unmounted")
}
