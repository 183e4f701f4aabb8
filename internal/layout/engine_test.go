package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/msalah0e/schemaview/internal/schema"
)

func parse(t *testing.T, doc string) *schema.Node {
	t.Helper()
	root, err := schema.ParseBytes("test.json", []byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	return root
}

type point struct {
	ID   int
	X, Y float64
}

func points(tree *Tree) []point {
	out := make([]point, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		out = append(out, point{ID: n.ID(), X: n.X, Y: n.Y})
	}
	return out
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestLayoutFlatChildren(t *testing.T) {
	root := parse(t, `{"properties": {"a": {"type": "string"}, "b": {"type": "string"}, "c": {"type": "string"}}}`)

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	if tree.Height != 105 {
		t.Errorf("expected height 105, got %v", tree.Height)
	}
	want := []point{
		{ID: 0, X: 0, Y: 52.5},
		{ID: 1, X: 340, Y: 17.5},
		{ID: 2, X: 340, Y: 52.5},
		{ID: 3, X: 340, Y: 87.5},
	}
	if diff := cmp.Diff(want, points(tree), approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if len(tree.Links) != 3 {
		t.Errorf("expected 3 links, got %d", len(tree.Links))
	}
}

func TestLayoutNested(t *testing.T) {
	root := parse(t, `{"properties": {
		"obj": {"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "string"}}},
		"c": {"type": "string"}
	}}`)
	root.Children()[0].SetVisible(true)

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	// ids: root 0, obj 1, a 2, b 3, c 4; breadth-first order
	want := []point{
		{ID: 0, X: 0, Y: 40},
		{ID: 1, X: 340, Y: 30},
		{ID: 4, X: 340, Y: 50},
		{ID: 2, X: 680, Y: 20},
		{ID: 3, X: 680, Y: 40},
	}
	if diff := cmp.Diff(want, points(tree), approx); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if tree.Height != 70 {
		t.Errorf("expected height 70, got %v", tree.Height)
	}
}

func TestLayoutLevelSpacingFollowsLongestLabel(t *testing.T) {
	long := "averyveryveryverylongpropertyname"
	root := parse(t, `{"properties": {
		"`+long+`": {"type": "object", "properties": {"x": {"type": "string"}}}
	}}`)
	root.Children()[0].SetVisible(true)

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	x, ok := tree.Find(2)
	if !ok {
		t.Fatal("node 2 not laid out")
	}
	label := long + "{ }"
	want := 340 + 100 + float64(len(label))*8
	if x.X != want {
		t.Errorf("expected level 2 at %v, got %v", want, x.X)
	}
}

func TestLayoutOnlyVisible(t *testing.T) {
	root := parse(t, `{"properties": {
		"obj": {"type": "object", "properties": {"a": {"type": "string"}}}
	}}`)

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	if len(tree.Nodes) != 2 {
		t.Fatalf("expected root and obj only, got %d nodes", len(tree.Nodes))
	}
	if _, ok := tree.Find(2); ok {
		t.Error("hidden child should not be laid out")
	}
}

func TestLayoutSingleRoot(t *testing.T) {
	root := schema.NewRoot(0)

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	if len(tree.Nodes) != 1 {
		t.Fatalf("expected one node, got %d", len(tree.Nodes))
	}
	if tree.Root.Y != 17.5 || tree.Root.X != 0 {
		t.Errorf("unexpected root position (%v, %v)", tree.Root.X, tree.Root.Y)
	}
	if tree.Root.MiddleChild() != nil {
		t.Error("leaf root has no middle child")
	}
}

func TestLayoutCustomLabeler(t *testing.T) {
	root := parse(t, `{"properties": {"a": {"type": "string"}}}`)
	root.Children()[0].SetVisible(true)
	label := func(n *schema.Node) string { return "x" }

	tree := New(DefaultConfig(), label).Layout(root, 1200)

	for _, n := range tree.Nodes {
		if n.Label != "x" {
			t.Errorf("node %d: expected injected label, got %q", n.ID(), n.Label)
		}
	}
}

func TestSiblingsDoNotOverlap(t *testing.T) {
	root := parse(t, `{"properties": {
		"p": {"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "string"}, "c": {"type": "string"}}},
		"q": {"type": "object", "properties": {"d": {"type": "string"}, "e": {"type": "string"}}},
		"r": {"type": "string"}
	}}`)
	root.Walk(func(n *schema.Node) { n.SetVisible(true) })

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	byDepth := map[int][]*Node{}
	for _, n := range tree.Nodes {
		byDepth[n.Depth] = append(byDepth[n.Depth], n)
	}
	for depth, nodes := range byDepth {
		for i := 1; i < len(nodes); i++ {
			if gap := nodes[i].Y - nodes[i-1].Y; gap <= 0 || math.IsNaN(gap) {
				t.Errorf("depth %d: nodes %d and %d out of order (gap %v)", depth, nodes[i-1].ID(), nodes[i].ID(), gap)
			}
		}
	}
	for _, n := range tree.Nodes {
		if n.Y < 0 || n.Y > tree.Height {
			t.Errorf("node %d outside height: %v", n.ID(), n.Y)
		}
	}
}

func TestMaxVisibleWidth(t *testing.T) {
	root := parse(t, `{"properties": {
		"p": {"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "string"}, "c": {"type": "string"}}},
		"q": {"type": "object", "properties": {"d": {"type": "string"}, "e": {"type": "string"}}}
	}}`)

	if got := MaxVisibleWidth(root); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	root.Walk(func(n *schema.Node) { n.SetVisible(true) })
	if got := MaxVisibleWidth(root); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestMiddleChild(t *testing.T) {
	root := parse(t, `{"properties": {"a": {"type": "string"}, "b": {"type": "string"}, "c": {"type": "string"}, "d": {"type": "string"}}}`)

	tree := New(DefaultConfig(), nil).Layout(root, 1200)

	if mid := tree.Root.MiddleChild(); mid == nil || mid.ID() != 3 {
		t.Errorf("expected middle child id 3, got %v", mid)
	}
}
