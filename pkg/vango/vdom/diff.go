package vdom

import (
	"fmt"
	"sort"
)

// PatchOp represents the type of patch operation
type PatchOp uint8

const (
	// OpReplaceText replaces text node content
	OpReplaceText PatchOp = 0x01
	// OpSetAttribute sets or replaces an attribute
	OpSetAttribute PatchOp = 0x02
	// OpRemoveNode removes a node
	OpRemoveNode PatchOp = 0x03
	// OpInsertNode appends a new node to its parent
	OpInsertNode PatchOp = 0x04
	// OpUpdateEvents rebinds the event handlers of a node
	OpUpdateEvents PatchOp = 0x05
	// OpRemoveAttribute removes an attribute
	OpRemoveAttribute PatchOp = 0x06
	// OpReplaceNode swaps a node for a freshly created one in place
	OpReplaceNode PatchOp = 0x07
)

// Patch represents a single DOM mutation.
//
// For OpRemoveNode and OpReplaceNode, Old carries the removed subtree so
// appliers can release listeners and fire ref callbacks for every node in it.
type Patch struct {
	Op       PatchOp
	NodeID   uint32
	ParentID uint32 // insert target, 0 means the mount root
	Key      string
	Value    string
	Node     *VNode
	Old      *VNode
}

// String returns a human-readable representation of the patch
func (p Patch) String() string {
	switch p.Op {
	case OpReplaceText:
		return fmt.Sprintf("ReplaceText(node=%d, text=%q)", p.NodeID, p.Value)
	case OpSetAttribute:
		return fmt.Sprintf("SetAttribute(node=%d, key=%q, value=%q)", p.NodeID, p.Key, p.Value)
	case OpRemoveAttribute:
		return fmt.Sprintf("RemoveAttribute(node=%d, key=%q)", p.NodeID, p.Key)
	case OpRemoveNode:
		return fmt.Sprintf("RemoveNode(node=%d)", p.NodeID)
	case OpInsertNode:
		return fmt.Sprintf("InsertNode(node=%d, parent=%d)", p.NodeID, p.ParentID)
	case OpUpdateEvents:
		return fmt.Sprintf("UpdateEvents(node=%d)", p.NodeID)
	case OpReplaceNode:
		return fmt.Sprintf("ReplaceNode(node=%d, with=%d)", p.NodeID, p.Node.ID)
	default:
		return fmt.Sprintf("Unknown(op=%d)", p.Op)
	}
}

type differ struct {
	patches []Patch
	nextID  uint32
}

// Diff computes the patches needed to transform prev into next.
//
// Nodes of next that survive from prev inherit their IDs; new nodes get IDs
// above the highest ID in prev. Children are reconciled by position.
func Diff(prev, next *VNode) []Patch {
	d := &differ{nextID: 1}
	if prev != nil {
		prev.Walk(func(n *VNode) {
			if n.ID >= d.nextID {
				d.nextID = n.ID + 1
			}
		})
	}
	d.diffNode(prev, next, 0)
	return d.patches
}

// assign stamps fresh IDs on a subtree that has no DOM counterpart yet
func (d *differ) assign(n *VNode) {
	n.Walk(func(c *VNode) {
		c.ID = d.nextID
		d.nextID++
	})
}

func (d *differ) diffNode(prev, next *VNode, parentID uint32) {
	switch {
	case prev == nil && next == nil:
		return

	case prev == nil:
		d.assign(next)
		d.patches = append(d.patches, Patch{Op: OpInsertNode, NodeID: next.ID, ParentID: parentID, Node: next})
		return

	case next == nil:
		d.patches = append(d.patches, Patch{Op: OpRemoveNode, NodeID: prev.ID, Old: prev})
		return

	case prev.Kind != next.Kind || prev.Tag != next.Tag || prev.GetKey() != next.GetKey():
		d.assign(next)
		d.patches = append(d.patches, Patch{Op: OpReplaceNode, NodeID: prev.ID, ParentID: parentID, Node: next, Old: prev})
		return
	}

	next.ID = prev.ID

	switch next.Kind {
	case KindText:
		if prev.Text != next.Text {
			d.patches = append(d.patches, Patch{Op: OpReplaceText, NodeID: next.ID, Value: next.Text})
		}
	case KindElement:
		d.diffProps(next.ID, prev.Props, next.Props)
		if prev.HasFlag(FlagHasEvents) || next.HasFlag(FlagHasEvents) {
			d.patches = append(d.patches, Patch{Op: OpUpdateEvents, NodeID: next.ID, Node: next})
		}
	}

	d.diffChildren(next.ID, prev.Kids, next.Kids)
}

func (d *differ) diffProps(nodeID uint32, prev, next Props) {
	for _, key := range sortedKeys(prev) {
		if IsSpecialProp(key) {
			continue
		}
		if _, ok := next[key]; !ok {
			d.patches = append(d.patches, Patch{Op: OpRemoveAttribute, NodeID: nodeID, Key: key})
		}
	}
	for _, key := range sortedKeys(next) {
		if IsSpecialProp(key) {
			continue
		}
		val := PropString(next[key])
		if old, ok := prev[key]; ok && PropString(old) == val {
			continue
		}
		d.patches = append(d.patches, Patch{Op: OpSetAttribute, NodeID: nodeID, Key: key, Value: val})
	}
}

func (d *differ) diffChildren(parentID uint32, prev, next []VNode) {
	common := min(len(prev), len(next))
	for i := 0; i < common; i++ {
		d.diffNode(&prev[i], &next[i], parentID)
	}
	for i := common; i < len(prev); i++ {
		d.diffNode(&prev[i], nil, parentID)
	}
	for i := common; i < len(next); i++ {
		d.diffNode(nil, &next[i], parentID)
	}
}

// PropString renders a prop value the way appliers write it to the DOM
func PropString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// sortedKeys returns the keys of p in a stable order
func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AttributeKeys returns the attribute keys of p in a stable order, skipping
// framework props.
func AttributeKeys(p Props) []string {
	keys := sortedKeys(p)
	out := keys[:0]
	for _, k := range keys {
		if !IsSpecialProp(k) {
			out = append(out, k)
		}
	}
	return out
}
