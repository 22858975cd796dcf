// Package components contains small presentational vango components.
package components

import (
	"strings"

	"github.com/recera/geowidget/pkg/styling"
	"github.com/recera/geowidget/pkg/vango/vdom"
)

// ButtonVariant defines the visual style of the button
type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonGhost     ButtonVariant = "ghost"
)

// ButtonSize defines the size of the button
type ButtonSize string

const (
	ButtonSmall  ButtonSize = "small"
	ButtonMedium ButtonSize = "medium"
)

// Styles holds the scoped button styles. Pages must include Styles.Sheet().
var Styles = styling.Style(`
.btn { border: 1px solid transparent; border-radius: 4px; cursor: pointer; font: inherit; }
.btn-small { padding: 0.125rem 0.5rem; font-size: 0.875rem; }
.btn-medium { padding: 0.375rem 0.875rem; }
.btn-primary { background: #ffcd00; border-color: #e0b400; color: #1d1d1b; }
.btn-secondary { background: #f4f4f4; border-color: #ccc; color: #1d1d1b; }
.btn-ghost { background: transparent; color: inherit; }
.btn-disabled { opacity: 0.5; cursor: default; }
.btn-group { display: flex; gap: 0.5rem; }
.btn-group-vertical { flex-direction: column; }
`)

// ButtonProps defines the properties for the Button component
type ButtonProps struct {
	Text     string
	Variant  ButtonVariant
	Size     ButtonSize
	Disabled bool
	OnClick  func()
	Class    string
	ID       string
}

// Button renders a <button type="button">. A disabled button has no click
// handler.
func Button(props ButtonProps) *vdom.VNode {
	if props.Variant == "" {
		props.Variant = ButtonPrimary
	}
	if props.Size == "" {
		props.Size = ButtonMedium
	}

	classes := []string{
		Styles.Class("btn"),
		Styles.Class("btn-" + string(props.Variant)),
		Styles.Class("btn-" + string(props.Size)),
	}
	if props.Disabled {
		classes = append(classes, Styles.Class("btn-disabled"))
	}
	classes = append(classes, props.Class)

	attrs := vdom.Props{
		"type":     "button",
		"class":    joinClasses(classes...),
		"disabled": props.Disabled,
	}
	if props.ID != "" {
		attrs["id"] = props.ID
	}
	if props.OnClick != nil && !props.Disabled {
		attrs["onclick"] = props.OnClick
	}

	return vdom.NewElement("button", attrs, vdom.NewText(props.Text))
}

// ButtonGroupProps lays out several buttons
type ButtonGroupProps struct {
	Buttons   []ButtonProps
	Direction string // "horizontal" or "vertical"
	Class     string
}

// ButtonGroup renders buttons side by side, or stacked when Direction is
// "vertical"
func ButtonGroup(props ButtonGroupProps) *vdom.VNode {
	classes := []string{Styles.Class("btn-group")}
	if props.Direction == "vertical" {
		classes = append(classes, Styles.Class("btn-group-vertical"))
	}
	classes = append(classes, props.Class)

	buttons := make([]*vdom.VNode, 0, len(props.Buttons))
	for _, b := range props.Buttons {
		buttons = append(buttons, Button(b))
	}
	return vdom.NewElement("div", vdom.Props{"class": joinClasses(classes...)}, buttons...)
}

func joinClasses(classes ...string) string {
	out := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
