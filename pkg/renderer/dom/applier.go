//go:build js && wasm

package dom

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

// DOMApplier applies VNode patches to the browser DOM below a root element
type DOMApplier struct {
	document      js.Value
	root          js.Value
	nodeMap       map[uint32]js.Value           // node ID -> DOM node; fragments map to their parent
	eventHandlers map[uint32]map[string]js.Func // node ID -> event name -> handler
}

// NewDOMApplier creates an applier mounting into root, or document.body when
// root is null or undefined
func NewDOMApplier(root js.Value) *DOMApplier {
	doc := js.Global().Get("document")
	if root.IsNull() || root.IsUndefined() {
		root = doc.Get("body")
	}
	return &DOMApplier{
		document:      doc,
		root:          root,
		nodeMap:       make(map[uint32]js.Value),
		eventHandlers: make(map[uint32]map[string]js.Func),
	}
}

// Apply applies patches to transform the DOM
func (a *DOMApplier) Apply(patches []vdom.Patch) error {
	for _, patch := range patches {
		if err := a.applyPatch(patch); err != nil {
			return fmt.Errorf("apply %v: %w", patch, err)
		}
	}
	return nil
}

func (a *DOMApplier) applyPatch(patch vdom.Patch) error {
	switch patch.Op {
	case vdom.OpReplaceText:
		return a.replaceText(patch)
	case vdom.OpSetAttribute:
		return a.setAttribute(patch)
	case vdom.OpRemoveAttribute:
		return a.removeAttribute(patch)
	case vdom.OpRemoveNode:
		return a.removeNode(patch)
	case vdom.OpInsertNode:
		return a.insertNode(patch)
	case vdom.OpReplaceNode:
		return a.replaceNode(patch)
	case vdom.OpUpdateEvents:
		return a.updateEvents(patch)
	default:
		return fmt.Errorf("unknown patch operation: %v", patch.Op)
	}
}

func (a *DOMApplier) lookup(id uint32) (js.Value, error) {
	node, ok := a.nodeMap[id]
	if !ok {
		return js.Undefined(), fmt.Errorf("node %d not found", id)
	}
	return node, nil
}

func (a *DOMApplier) replaceText(patch vdom.Patch) error {
	node, err := a.lookup(patch.NodeID)
	if err != nil {
		return err
	}
	node.Set("textContent", patch.Value)
	return nil
}

// setAttribute sets an attribute on an element
func (a *DOMApplier) setAttribute(patch vdom.Patch) error {
	node, err := a.lookup(patch.NodeID)
	if err != nil {
		return err
	}
	setAttr(node, patch.Key, patch.Value)
	return nil
}

func setAttr(node js.Value, key, value string) {
	switch key {
	case "class":
		node.Set("className", value)
	case "for":
		node.Set("htmlFor", value)
	case "checked", "selected", "disabled", "readonly", "required", "defer", "async":
		node.Set(key, value == "true")
	case "value":
		switch node.Get("tagName").String() {
		case "INPUT", "TEXTAREA", "SELECT":
			node.Set("value", value)
		default:
			node.Call("setAttribute", key, value)
		}
	default:
		node.Call("setAttribute", key, value)
	}
}

// removeAttribute removes an attribute from an element
func (a *DOMApplier) removeAttribute(patch vdom.Patch) error {
	node, err := a.lookup(patch.NodeID)
	if err != nil {
		return err
	}

	switch patch.Key {
	case "class":
		node.Set("className", "")
	case "checked", "selected", "disabled", "readonly", "required":
		node.Set(patch.Key, false)
	default:
		node.Call("removeAttribute", patch.Key)
	}
	return nil
}

func (a *DOMApplier) parent(id uint32) (js.Value, error) {
	if id == 0 {
		return a.root, nil
	}
	return a.lookup(id)
}

// insertNode creates the subtree and appends it to its parent
func (a *DOMApplier) insertNode(patch vdom.Patch) error {
	if patch.Node == nil {
		return fmt.Errorf("insert patch missing node")
	}
	parent, err := a.parent(patch.ParentID)
	if err != nil {
		return err
	}
	parent.Call("appendChild", a.createDOMTree(patch.Node, parent))
	return nil
}

// replaceNode swaps the DOM of patch.Old for a fresh subtree
func (a *DOMApplier) replaceNode(patch vdom.Patch) error {
	if patch.Node == nil || patch.Old == nil {
		return fmt.Errorf("replace patch missing node")
	}
	old := a.domNodes(patch.Old)
	if len(old) == 0 {
		return fmt.Errorf("node %d not found", patch.NodeID)
	}
	parent := old[0].Get("parentNode")
	if parent.IsNull() || parent.IsUndefined() {
		return fmt.Errorf("node %d is detached", patch.NodeID)
	}

	// old refs see null before new refs see their element
	anchor := old[len(old)-1].Get("nextSibling")
	a.release(patch.Old)
	detach(old)
	parent.Call("insertBefore", a.createDOMTree(patch.Node, parent), anchor)
	return nil
}

// removeNode removes a subtree, firing its ref callbacks with null
func (a *DOMApplier) removeNode(patch vdom.Patch) error {
	if patch.Old == nil {
		return fmt.Errorf("remove patch missing node")
	}
	old := a.domNodes(patch.Old)
	a.release(patch.Old)
	detach(old)
	return nil
}

// domNodes returns the top-level DOM nodes backing n
func (a *DOMApplier) domNodes(n *vdom.VNode) []js.Value {
	if n.Kind == vdom.KindFragment {
		var out []js.Value
		for i := range n.Kids {
			out = append(out, a.domNodes(&n.Kids[i])...)
		}
		return out
	}
	if node, ok := a.nodeMap[n.ID]; ok {
		return []js.Value{node}
	}
	return nil
}

// release drops bookkeeping for a subtree that is leaving the document
func (a *DOMApplier) release(n *vdom.VNode) {
	n.Walk(func(c *vdom.VNode) {
		if handlers, ok := a.eventHandlers[c.ID]; ok {
			node := a.nodeMap[c.ID]
			for name, fn := range handlers {
				node.Call("removeEventListener", name, fn)
				fn.Release()
			}
			delete(a.eventHandlers, c.ID)
		}
		if c.Kind == vdom.KindElement {
			if ref := c.Ref(); ref != nil {
				ref(js.Null())
			}
		}
		delete(a.nodeMap, c.ID)
	})
}

func detach(nodes []js.Value) {
	for _, node := range nodes {
		parent := node.Get("parentNode")
		if !parent.IsNull() && !parent.IsUndefined() {
			parent.Call("removeChild", node)
		}
	}
}

// createDOMTree builds the DOM for vnode. Refs are called right after their
// element is created, before it is connected to the document.
func (a *DOMApplier) createDOMTree(vnode *vdom.VNode, parent js.Value) js.Value {
	switch vnode.Kind {
	case vdom.KindText:
		text := a.document.Call("createTextNode", vnode.Text)
		a.nodeMap[vnode.ID] = text
		return text

	case vdom.KindFragment:
		frag := a.document.Call("createDocumentFragment")
		a.nodeMap[vnode.ID] = parent
		for i := range vnode.Kids {
			frag.Call("appendChild", a.createDOMTree(&vnode.Kids[i], parent))
		}
		return frag

	default:
		elem := a.document.Call("createElement", vnode.Tag)
		a.nodeMap[vnode.ID] = elem

		for _, key := range vdom.AttributeKeys(vnode.Props) {
			if b, ok := vnode.Props[key].(bool); ok {
				if b {
					elem.Call("setAttribute", key, "")
				}
				continue
			}
			setAttr(elem, key, vdom.PropString(vnode.Props[key]))
		}
		a.attachEventHandlers(vnode.ID, elem, vnode.Props)
		if ref := vnode.Ref(); ref != nil {
			ref(elem)
		}

		for i := range vnode.Kids {
			elem.Call("appendChild", a.createDOMTree(&vnode.Kids[i], elem))
		}
		return elem
	}
}

// updateEvents rebinds the event listeners of a node
func (a *DOMApplier) updateEvents(patch vdom.Patch) error {
	node, err := a.lookup(patch.NodeID)
	if err != nil {
		return err
	}
	if patch.Node == nil {
		return fmt.Errorf("events patch missing node")
	}
	a.attachEventHandlers(patch.NodeID, node, patch.Node.Props)
	return nil
}

// attachEventHandlers replaces the event handlers of a DOM element
func (a *DOMApplier) attachEventHandlers(nodeID uint32, elem js.Value, props vdom.Props) {
	if handlers, exists := a.eventHandlers[nodeID]; exists {
		for eventName, fn := range handlers {
			elem.Call("removeEventListener", eventName, fn)
			fn.Release()
		}
		delete(a.eventHandlers, nodeID)
	}

	handlers := make(map[string]js.Func)
	for key, value := range props {
		if !vdom.IsEventProp(key) {
			continue
		}
		// onClick -> click
		eventName := strings.ToLower(key[2:])

		var jsFunc js.Func
		switch h := value.(type) {
		case func():
			jsFunc = js.FuncOf(func(this js.Value, args []js.Value) any {
				h()
				return nil
			})
		case func(js.Value):
			jsFunc = js.FuncOf(func(this js.Value, args []js.Value) any {
				if len(args) > 0 {
					h(args[0])
				} else {
					h(js.Undefined())
				}
				return nil
			})
		case func(string):
			// receives event.target.value
			jsFunc = js.FuncOf(func(this js.Value, args []js.Value) any {
				value := ""
				if len(args) > 0 {
					if v := args[0].Get("target").Get("value"); v.Type() == js.TypeString {
						value = v.String()
					}
				}
				h(value)
				return nil
			})
		default:
			continue
		}

		elem.Call("addEventListener", eventName, jsFunc)
		handlers[eventName] = jsFunc
	}

	if len(handlers) > 0 {
		a.eventHandlers[nodeID] = handlers
	}
}
