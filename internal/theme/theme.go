// Package theme holds the scoped styles shared by the demo page and the wasm
// client that renders into it.
package theme

import (
	"github.com/recera/geowidget/pkg/components"
	"github.com/recera/geowidget/pkg/styling"
)

// Demo styles the page chrome around the widget
var Demo = styling.Style(`
body { margin: 0; font-family: system-ui, sans-serif; }
.app { padding: 1rem; }
.toolbar { margin-bottom: 0.75rem; }
.selection { margin-top: 1rem; color: #333; }
`)

var registry = styling.NewRegistry()

func init() {
	registry.Register(Demo)
	registry.Register(components.Styles)
}

// CSS returns every stylesheet the demo page needs, scoped
func CSS() string {
	return registry.CSS()
}
