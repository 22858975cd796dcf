package vdom

import (
	"testing"
)

// mounted returns n after an initial diff has stamped its IDs
func mounted(n *VNode) *VNode {
	Diff(nil, n)
	return n
}

type patchSummary struct {
	Op     PatchOp
	NodeID uint32
	Key    string
	Value  string
}

func summarize(patches []Patch) []patchSummary {
	out := make([]patchSummary, 0, len(patches))
	for _, p := range patches {
		out = append(out, patchSummary{Op: p.Op, NodeID: p.NodeID, Key: p.Key, Value: p.Value})
	}
	return out
}

func equalSummaries(a, b []patchSummary) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDiff_InitialRenderAssignsPreorderIDs(t *testing.T) {
	root := NewElement("div", nil,
		NewElement("p", nil, NewText("a")),
		NewElement("span", nil),
	)

	patches := Diff(nil, root)
	if len(patches) != 1 || patches[0].Op != OpInsertNode {
		t.Fatalf("expected a single insert, got %v", patches)
	}

	var ids []uint32
	root.Walk(func(n *VNode) { ids = append(ids, n.ID) })
	want := []uint32{1, 2, 3, 4}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestDiff_Nodes(t *testing.T) {
	tests := []struct {
		name string
		prev *VNode
		next *VNode
		want []patchSummary
	}{
		{
			name: "text content change",
			prev: NewText("Hello"),
			next: NewText("World"),
			want: []patchSummary{{Op: OpReplaceText, NodeID: 1, Value: "World"}},
		},
		{
			name: "text content unchanged",
			prev: NewText("Same"),
			next: NewText("Same"),
			want: []patchSummary{},
		},
		{
			name: "different tags replace in place",
			prev: NewElement("div", nil),
			next: NewElement("span", nil),
			want: []patchSummary{{Op: OpReplaceNode, NodeID: 1}},
		},
		{
			name: "add attribute",
			prev: NewElement("div", nil),
			next: NewElement("div", Props{"class": "active"}),
			want: []patchSummary{{Op: OpSetAttribute, NodeID: 1, Key: "class", Value: "active"}},
		},
		{
			name: "remove attribute",
			prev: NewElement("div", Props{"class": "active"}),
			next: NewElement("div", nil),
			want: []patchSummary{{Op: OpRemoveAttribute, NodeID: 1, Key: "class"}},
		},
		{
			name: "attributes in stable order",
			prev: NewElement("x-el", Props{"language": "pl", "config": "parcelCollect"}),
			next: NewElement("x-el", Props{"language": "uk", "config": "parcelSend"}),
			want: []patchSummary{
				{Op: OpSetAttribute, NodeID: 1, Key: "config", Value: "parcelSend"},
				{Op: OpSetAttribute, NodeID: 1, Key: "language", Value: "uk"},
			},
		},
		{
			name: "ref and key never become attributes",
			prev: NewElement("div", Props{"ref": RefFunc(func(ElementRef) {})}),
			next: NewElement("div", Props{"ref": RefFunc(func(ElementRef) {}), "key": ""}),
			want: []patchSummary{},
		},
		{
			name: "child appended",
			prev: NewElement("ul", nil, NewElement("li", nil)),
			next: NewElement("ul", nil, NewElement("li", nil), NewElement("li", nil)),
			want: []patchSummary{{Op: OpInsertNode, NodeID: 3}},
		},
		{
			name: "child removed",
			prev: NewElement("ul", nil, NewElement("li", nil), NewElement("li", nil)),
			next: NewElement("ul", nil, NewElement("li", nil)),
			want: []patchSummary{{Op: OpRemoveNode, NodeID: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(Diff(mounted(tt.prev), tt.next))
			if !equalSummaries(got, tt.want) {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiff_InheritsIDs(t *testing.T) {
	prev := mounted(NewElement("div", nil, NewElement("inpost-geowidget", Props{"token": "a"})))
	next := NewElement("div", nil, NewElement("inpost-geowidget", Props{"token": "b"}))

	Diff(prev, next)

	if next.ID != prev.ID || next.Kids[0].ID != prev.Kids[0].ID {
		t.Errorf("surviving nodes should keep their IDs: prev=%d/%d next=%d/%d",
			prev.ID, prev.Kids[0].ID, next.ID, next.Kids[0].ID)
	}
}

func TestDiff_RemoveCarriesOldSubtree(t *testing.T) {
	child := NewElement("section", nil, NewText("bye"))
	prev := mounted(NewElement("div", nil, child))
	next := NewElement("div", nil)

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %v", patches)
	}
	if patches[0].Old == nil || patches[0].Old.Tag != "section" {
		t.Errorf("remove patch should carry the removed subtree, got %+v", patches[0].Old)
	}
}

func TestDiff_EventsRebound(t *testing.T) {
	prev := mounted(NewElement("button", Props{"onclick": func() {}}))
	next := NewElement("button", Props{"onclick": func() {}})

	patches := Diff(prev, next)
	if len(patches) != 1 || patches[0].Op != OpUpdateEvents || patches[0].Node != next {
		t.Errorf("expected UpdateEvents carrying the next node, got %v", patches)
	}
}

func TestVNode_Ref(t *testing.T) {
	called := false
	n := NewElement("div", Props{"ref": func(ElementRef) { called = true }})
	if !n.HasFlag(FlagHasRef) {
		t.Fatal("FlagHasRef not set")
	}
	ref := n.Ref()
	if ref == nil {
		t.Fatal("Ref() returned nil")
	}
	ref(nil)
	if !called {
		t.Error("ref callback not invoked")
	}
}
