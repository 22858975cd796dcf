//go:build !js || !wasm

package dom

import (
	"errors"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

// ErrNoDOM is returned outside the browser
var ErrNoDOM = errors.New("DOM applier is only available in WASM builds")

// DOMApplier applies VNode patches to the browser DOM (stub for non-WASM builds)
type DOMApplier struct{}

// NewDOMApplier creates a new DOM applier (stub)
func NewDOMApplier(root any) *DOMApplier {
	return &DOMApplier{}
}

// Apply applies patches to transform the DOM (stub)
func (a *DOMApplier) Apply(patches []vdom.Patch) error {
	return ErrNoDOM
}
