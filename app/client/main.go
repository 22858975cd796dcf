//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"syscall/js"

	"github.com/recera/geowidget/internal/relay"
	"github.com/recera/geowidget/internal/theme"
	"github.com/recera/geowidget/pkg/components"
	"github.com/recera/geowidget/pkg/debug"
	"github.com/recera/geowidget/pkg/geowidget"
	"github.com/recera/geowidget/pkg/reactive"
	"github.com/recera/geowidget/pkg/renderer/dom"
	"github.com/recera/geowidget/pkg/scheduler"
	"github.com/recera/geowidget/pkg/vango"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

// handleBox holds the widget handle between mount and unmount
type handleBox struct {
	mu sync.Mutex
	h  geowidget.Handle
}

func (b *handleBox) set(h geowidget.Handle) {
	b.mu.Lock()
	b.h = h
	b.mu.Unlock()
}

func (b *handleBox) get() geowidget.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.h
}

func main() {
	document := js.Global().Get("document")

	boot, err := readBoot(document)
	level := slog.LevelInfo
	if boot.Debug {
		level = slog.LevelDebug
	}
	log := debug.EnableLogging(level)
	if err != nil {
		log.Error("geowidget: cannot start", "err", err)
		return
	}

	sched := scheduler.NewScheduler()
	applier := dom.NewDOMApplier(document.Call("getElementById", "app"))
	sched.SetPatchApplier(applier.Apply)

	rc := relay.Dial(relayURL(boot.Relay), log)

	token := reactive.NewState(boot.Widget.Token, sched)
	language := reactive.NewState(boot.Widget.Language, sched)
	mode := reactive.NewState(boot.Widget.Config, sched)
	selected := reactive.NewState("", sched)

	var box handleBox

	app := vango.FC(func(ctx *vango.Context) *vdom.VNode {
		props := geowidget.Props{
			Token:    token.Get(),
			Language: language.Get(),
			Config:   mode.Get(),
			Attrs:    toProps(boot.Attrs),
			OnPoint: func(p geowidget.SelectedPoint) {
				selected.Set(p.String())
				rc.SendPoint(p)
			},
			Ref: box.set,
		}
		if boot.Class != "" || len(boot.ContainerAttrs) > 0 {
			props.Container = &geowidget.ContainerProps{
				Class: boot.Class,
				Attrs: toProps(boot.ContainerAttrs),
			}
		}

		return vango.Main(nil,
			toolbar(language, &box),
			geowidget.Component(ctx, "picker", props,
				geowidget.WithLogger(log),
				geowidget.WithAssets(geowidget.AssetsFor(boot.Environment)),
				geowidget.WithReadyHook(rc.Ready),
			),
			vango.P(vdom.Props{"class": theme.Demo.Class("selection")}, vango.Text(selection(selected.Get()))),
		)
	})

	var fiber *scheduler.Fiber
	fiber = sched.CreateFiber(func() *vdom.VNode {
		ctx := vango.NewContext(vango.ModeClient).WithScheduler(sched).WithFiber(fiber)
		return app.Render(ctx)
	}, nil)

	rc.OnCommand(func(cmd geowidget.Command) {
		h := box.get()
		if h == nil {
			log.Debug("geowidget: command before mount", "method", cmd.Method)
			return
		}
		if err := geowidget.Dispatch(h, cmd); err != nil {
			log.Warn("geowidget: rejected command", "method", cmd.Method, "err", err)
		}
	})
	rc.OnProps(func(p relay.PropsUpdate) {
		reactive.RunBatch(sched, func() {
			if p.Token != "" {
				token.Set(p.Token)
			}
			if p.Language != "" {
				language.Set(p.Language)
			}
			if p.Config != "" {
				mode.Set(p.Config)
			}
		})
	})

	sched.RenderNow(fiber)
	sched.Start()
	log.Info("geowidget: client started", "language", boot.Widget.Language, "config", boot.Widget.Config)

	select {}
}

// toolbar switches the language declaratively and clears the search through
// the handle
func toolbar(language *reactive.State[geowidget.Language], box *handleBox) *vdom.VNode {
	current := language.Get()
	var buttons []components.ButtonProps
	for _, lang := range geowidget.Languages {
		variant := components.ButtonSecondary
		if lang == current {
			variant = components.ButtonPrimary
		}
		buttons = append(buttons, components.ButtonProps{
			Text:    string(lang),
			Variant: variant,
			Size:    components.ButtonSmall,
			OnClick: func() { language.Set(lang) },
		})
	}
	buttons = append(buttons, components.ButtonProps{
		Text:    "clear search",
		Variant: components.ButtonGhost,
		Size:    components.ButtonSmall,
		OnClick: func() {
			if h := box.get(); h != nil {
				h.ClearSearch()
			}
		},
	})
	return components.ButtonGroup(components.ButtonGroupProps{
		Buttons: buttons,
		Class:   theme.Demo.Class("toolbar"),
	})
}

func selection(name string) string {
	if name == "" {
		return "No point selected."
	}
	return "Selected: " + name
}

func readBoot(document js.Value) (relay.Boot, error) {
	var boot relay.Boot
	el := document.Call("getElementById", relay.BootElementID)
	if el.IsNull() {
		return boot, fmt.Errorf("missing #%s", relay.BootElementID)
	}
	if err := json.Unmarshal([]byte(el.Get("textContent").String()), &boot); err != nil {
		return boot, fmt.Errorf("decode boot config: %w", err)
	}
	return boot, nil
}

func relayURL(path string) string {
	loc := js.Global().Get("location")
	scheme := "ws:"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss:"
	}
	return scheme + "//" + loc.Get("host").String() + path
}

func toProps(m map[string]string) vdom.Props {
	if len(m) == 0 {
		return nil
	}
	p := make(vdom.Props, len(m))
	for k, v := range m {
		p[k] = v
	}
	return p
}
