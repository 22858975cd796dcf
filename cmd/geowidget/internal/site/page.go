package site

import (
	"encoding/json"
	"fmt"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/internal/relay"
	"github.com/recera/geowidget/internal/theme"
	"github.com/recera/geowidget/pkg/geowidget"
	"github.com/recera/geowidget/pkg/vango"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

const bootstrapJS = `const go = new Go();
WebAssembly.instantiateStreaming(fetch("/static/main.wasm"), go.importObject).then((result) => {
    go.run(result.instance);
}).catch((err) => {
    console.error("Failed to load WASM:", err);
});`

// BootFor builds the configuration handed to the wasm client
func BootFor(cfg *config.Config, relayPath string, debug bool) relay.Boot {
	b := relay.Boot{
		Relay: relayPath,
		Widget: relay.PropsUpdate{
			Token:    cfg.Token,
			Language: geowidget.Language(cfg.Language),
			Config:   geowidget.ConfigMode(cfg.Config),
		},
		Environment: geowidget.Environment(cfg.Environment),
		Attrs:       cfg.Attrs,
		Debug:       debug,
	}
	if cfg.Container != nil {
		b.Class = cfg.Container.Class
		b.ContainerAttrs = cfg.Container.Attrs
	}
	return b
}

// Page builds the demo document. The widget itself is mounted by the wasm
// client so that its ref sees the live element.
func Page(cfg *config.Config, boot relay.Boot) (*vdom.VNode, error) {
	data, err := json.Marshal(boot)
	if err != nil {
		return nil, fmt.Errorf("encode boot config: %w", err)
	}

	head := []*vdom.VNode{
		vdom.NewElement("meta", vdom.Props{"charset": "utf-8"}),
		vdom.NewElement("meta", vdom.Props{
			"name":    "viewport",
			"content": "width=device-width, initial-scale=1",
		}),
		vdom.NewElement("title", nil, vdom.NewText("InPost Geowidget")),
	}
	head = append(head, cfg.Assets().Head()...)
	head = append(head, vdom.NewElement("style", nil, vdom.NewText(theme.CSS())))

	body := []*vdom.VNode{
		vdom.NewElement("div", vdom.Props{"id": "app", "class": theme.Demo.Class("app")}),
		vdom.NewElement("script", vdom.Props{
			"id":   relay.BootElementID,
			"type": "application/json",
		}, vdom.NewText(string(data))),
		vdom.NewElement("script", vdom.Props{"src": "/static/wasm_exec.js"}),
		vdom.NewElement("script", nil, vdom.NewText(bootstrapJS)),
	}

	return vdom.NewElement("html", vdom.Props{"lang": cfg.Language},
		vdom.NewElement("head", nil, head...),
		vdom.NewElement("body", nil, body...),
	), nil
}

// Fragment returns the asset tags followed by the widget markup, for
// embedding into pages rendered elsewhere
func Fragment(cfg *config.Config) *vdom.VNode {
	kids := cfg.Assets().Head()
	kids = append(kids, geowidget.Component(vango.NewContext(vango.ModeSSRStatic), "widget", cfg.Props()))
	return vdom.NewFragment(kids...)
}
