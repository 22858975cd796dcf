package vdom

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents a DOM element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
	// KindFragment represents a fragment (multiple children without parent)
	KindFragment
)

// VNodeFlags are bitwise flags for VNode optimizations
type VNodeFlags uint8

const (
	// FlagHasKey indicates this node has a key for list reconciliation
	FlagHasKey VNodeFlags = 1 << iota
	// FlagHasRef indicates this node has a ref callback
	FlagHasRef
	// FlagHasEvents indicates this node has event listeners
	FlagHasEvents
)

// Props represents the properties/attributes of a VNode.
// Values are rendered with %v except for the special keys handled by
// IsSpecialProp.
type Props map[string]any

// RefFunc receives the underlying element once it exists. Appliers call it
// again with a null reference when the element is removed.
type RefFunc func(ElementRef)

// VNode represents a virtual DOM node.
// Once built it is treated as immutable.
type VNode struct {
	ID    uint32 // assigned by Diff; stable for the lifetime of the DOM node
	Kind  VKind
	Tag   string // element tag, only for KindElement
	Props Props
	Kids  []VNode
	Key   string
	Flags VNodeFlags
	Text  string // only for KindText
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	var flags VNodeFlags
	for k := range props {
		switch {
		case k == "key":
			flags |= FlagHasKey
		case k == "ref":
			flags |= FlagHasRef
		case IsEventProp(k):
			flags |= FlagHasEvents
		}
	}

	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  flatten(children),
		Flags: flags,
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	return &VNode{
		Kind: KindFragment,
		Kids: flatten(children),
	}
}

// flatten copies non-nil children into a value slice
func flatten(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// HasFlag returns true if the specified flag is set
func (v VNode) HasFlag(flag VNodeFlags) bool {
	return v.Flags&flag != 0
}

// GetKey returns the key of this node, handling the Props map safely
func (v VNode) GetKey() string {
	if key, ok := v.Props["key"].(string); ok {
		return key
	}
	return v.Key
}

// Ref returns the ref callback attached to this node, if any.
func (v VNode) Ref() RefFunc {
	switch fn := v.Props["ref"].(type) {
	case RefFunc:
		return fn
	case func(ElementRef):
		return fn
	}
	return nil
}

// Walk visits v and its descendants in document order.
func (v *VNode) Walk(visit func(n *VNode)) {
	visit(v)
	for i := range v.Kids {
		v.Kids[i].Walk(visit)
	}
}

// IsEventProp reports whether key names an event handler (onclick, oninput...)
func IsEventProp(key string) bool {
	return len(key) > 2 && key[0] == 'o' && key[1] == 'n'
}

// IsSpecialProp reports whether key is consumed by the framework and must
// never be written to the DOM as an attribute.
func IsSpecialProp(key string) bool {
	return key == "key" || key == "ref" || IsEventProp(key)
}
