//go:build !js || !wasm

package vdom

// ElementRef is an opaque element handle outside the browser. Tests and
// server-side hosts pass their own element implementations through it.
type ElementRef = any
