package geowidget

import (
	"fmt"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

// Environment selects where the widget assets are served from
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

const (
	productionBase = "https://geowidget.inpost.pl"
	sandboxBase    = "https://sandbox-easy-geowidget-sdk.easypack24.net"
)

// ParseEnvironment converts s into an Environment. The empty string yields Production.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case "", Production:
		return Production, nil
	case Sandbox:
		return Sandbox, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
}

// Assets are the remote files that define the custom element
type Assets struct {
	Script     string
	Stylesheet string
}

// AssetsFor returns the asset URLs of env. Unknown environments get production.
func AssetsFor(env Environment) Assets {
	base := productionBase
	if env == Sandbox {
		base = sandboxBase
	}
	return Assets{
		Script:     base + "/inpost-geowidget.js",
		Stylesheet: base + "/inpost-geowidget.css",
	}
}

// Head returns the <link> and <script> nodes for server-rendered pages
func (a Assets) Head() []*vdom.VNode {
	var nodes []*vdom.VNode
	if a.Stylesheet != "" {
		nodes = append(nodes, vdom.NewElement("link", vdom.Props{
			"rel":  "stylesheet",
			"href": a.Stylesheet,
		}))
	}
	if a.Script != "" {
		nodes = append(nodes, vdom.NewElement("script", vdom.Props{
			"src":   a.Script,
			"defer": true,
		}))
	}
	return nodes
}

// AssetLoader makes the assets available to the document. Request is called
// once per mount; deduplication is up to the loader.
type AssetLoader interface {
	Request(a Assets)
}

// AssetLoaderFunc adapts a function to AssetLoader
type AssetLoaderFunc func(Assets)

func (f AssetLoaderFunc) Request(a Assets) { f(a) }
