//go:build js && wasm

package relay

import (
	"log/slog"
	"sync"
	"syscall/js"

	"github.com/recera/geowidget/pkg/geowidget"
)

// Client is the browser end of the relay socket
type Client struct {
	ws    js.Value
	log   *slog.Logger
	funcs []js.Func

	mu        sync.Mutex
	id        string
	open      bool
	pending   [][]byte
	onCommand func(geowidget.Command)
	onProps   func(PropsUpdate)
}

// Dial opens a WebSocket to url. Messages sent before the socket opens are
// queued.
func Dial(url string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		ws:  js.Global().Get("WebSocket").New(url),
		log: log,
	}

	c.on("open", func(js.Value) {
		c.mu.Lock()
		c.open = true
		pending := c.pending
		c.pending = nil
		c.mu.Unlock()
		for _, data := range pending {
			c.ws.Call("send", string(data))
		}
	})
	c.on("message", func(ev js.Value) {
		c.receive(ev.Get("data").String())
	})
	c.on("close", func(js.Value) {
		c.mu.Lock()
		c.open = false
		c.mu.Unlock()
		c.log.Warn("relay: socket closed")
	})
	return c
}

func (c *Client) on(event string, fn func(js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	c.funcs = append(c.funcs, f)
	c.ws.Call("addEventListener", event, f)
}

func (c *Client) receive(data string) {
	msg, err := Decode([]byte(data))
	if err != nil {
		c.log.Warn("relay: bad message", "err", err)
		return
	}

	c.mu.Lock()
	onCommand, onProps := c.onCommand, c.onProps
	if msg.Type == TypeHello {
		c.id = msg.Client
	}
	c.mu.Unlock()

	switch msg.Type {
	case TypeHello:
		c.log.Info("relay: connected", "client", msg.Client)
	case TypeCommand:
		if onCommand != nil {
			onCommand(*msg.Command)
		}
	case TypeProps:
		if onProps != nil {
			onProps(*msg.Props)
		}
	}
}

// OnCommand sets the handler for facade commands
func (c *Client) OnCommand(fn func(geowidget.Command)) {
	c.mu.Lock()
	c.onCommand = fn
	c.mu.Unlock()
}

// OnProps sets the handler for configuration changes
func (c *Client) OnProps(fn func(PropsUpdate)) {
	c.mu.Lock()
	c.onProps = fn
	c.mu.Unlock()
}

// ID returns the id assigned by the server, empty before the hello
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Ready reports that the widget delivered its control API
func (c *Client) Ready() {
	c.send(Message{Type: TypeReady})
}

// SendPoint reports a selected point
func (c *Client) SendPoint(p geowidget.SelectedPoint) {
	c.send(Message{Type: TypePoint, Point: &p})
}

func (c *Client) send(msg Message) {
	data, err := Encode(msg)
	if err != nil {
		c.log.Error("relay: encode", "err", err)
		return
	}

	c.mu.Lock()
	if !c.open {
		c.pending = append(c.pending, data)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.ws.Call("send", string(data))
}

// Close closes the socket and releases its callbacks
func (c *Client) Close() {
	c.ws.Call("close")
	for _, f := range c.funcs {
		f.Release()
	}
	c.funcs = nil
}
