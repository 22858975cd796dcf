package html

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttributes are HTML attributes that are boolean flags
var booleanAttributes = map[string]bool{
	"checked":   true,
	"disabled":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
	"defer":     true,
	"async":     true,
	"multiple":  true,
	"autofocus": true,
}

// HTMLApplier renders VNodes to HTML
type HTMLApplier struct {
	w   io.Writer
	err error
}

// NewHTMLApplier creates a new HTML applier
func NewHTMLApplier(w io.Writer) *HTMLApplier {
	return &HTMLApplier{w: w}
}

// Apply renders a VNode tree to HTML. Server rendering is one-shot, so prev
// must be nil.
func (a *HTMLApplier) Apply(prev, next *vdom.VNode) error {
	if prev != nil {
		return fmt.Errorf("htmlApplier does not support incremental updates")
	}
	if next == nil {
		return nil
	}

	a.renderNode(next, false)
	return a.err
}

// write helper that tracks errors
func (a *HTMLApplier) write(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

// renderNode renders a single VNode. Text inside script and style is written raw.
func (a *HTMLApplier) renderNode(node *vdom.VNode, raw bool) {
	if node == nil || a.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		if raw {
			a.write(node.Text)
		} else {
			a.write(html.EscapeString(node.Text))
		}

	case vdom.KindElement:
		a.renderElement(node)

	case vdom.KindFragment:
		for i := range node.Kids {
			a.renderNode(&node.Kids[i], raw)
		}
	}
}

// renderElement renders an element node with its attributes in key order
func (a *HTMLApplier) renderElement(node *vdom.VNode) {
	a.write("<")
	a.write(node.Tag)

	for _, key := range vdom.AttributeKeys(node.Props) {
		value := node.Props[key]

		if booleanAttributes[key] {
			if v, ok := value.(bool); ok && v {
				a.write(" ")
				a.write(key)
			}
			continue
		}

		valueStr := vdom.PropString(value)

		// Security: prevent javascript: URLs in href/src attributes
		if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(strings.TrimSpace(valueStr)), "javascript:") {
			valueStr = "#"
		}

		a.write(" ")
		a.write(key)
		a.write(`="`)
		a.write(html.EscapeString(valueStr))
		a.write(`"`)
	}

	a.write(">")

	if voidElements[node.Tag] {
		return
	}

	raw := node.Tag == "script" || node.Tag == "style"
	for i := range node.Kids {
		a.renderNode(&node.Kids[i], raw)
	}

	a.write("</")
	a.write(node.Tag)
	a.write(">")
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewHTMLApplier(&buf).Apply(nil, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDocument writes a full HTML document with the doctype preamble.
func RenderDocument(w io.Writer, root *vdom.VNode) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return NewHTMLApplier(w).Apply(nil, root)
}
