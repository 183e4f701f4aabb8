package tree

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/viewport"
)

// ids: root 0, a 1, b 2, b1 3, b1x 4, b2 5, c 6
const doc = `{
	"properties": {
		"a": {"type": "string"},
		"b": {"type": "object", "properties": {
			"b1": {"type": "object", "properties": {"x": {"type": "string"}}},
			"b2": {"type": "string"}
		}},
		"c": {"type": "string"}
	}
}`

type recorder struct {
	frames   []Frame
	selected []*schema.Node
}

func newController(t *testing.T) (*Controller, *recorder) {
	t.Helper()
	root, err := schema.ParseBytes("doc.json", []byte(doc))
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	rec := &recorder{}
	c := New(root, Options{
		Zoom:     viewport.New(viewport.DefaultConfig(), 1000, 600),
		OnSelect: func(n *schema.Node) { rec.selected = append(rec.selected, n) },
		OnFrame:  func(f Frame) { rec.frames = append(rec.frames, f) },
	})
	return c, rec
}

func (r *recorder) last(t *testing.T) Frame {
	t.Helper()
	if len(r.frames) == 0 {
		t.Fatal("no frame emitted")
	}
	return r.frames[len(r.frames)-1]
}

func node(t *testing.T, c *Controller, id int) *schema.Node {
	t.Helper()
	n, ok := c.Node(id)
	if !ok {
		t.Fatalf("node %d not found", id)
	}
	return n
}

func TestInitTreeShowsFirstLevel(t *testing.T) {
	c, rec := newController(t)
	node(t, c, 2).SetVisible(true)
	node(t, c, 3).SetVisible(true)

	if err := c.InitTree(); err != nil {
		t.Fatalf("InitTree failed: %v", err)
	}

	if diff := cmp.Diff([]int{0, 1, 2, 6}, c.Scene().NodeIDs()); diff != "" {
		t.Errorf("drawn nodes mismatch (-want +got):\n%s", diff)
	}
	if len(rec.selected) != 1 || rec.selected[0] != nil {
		t.Errorf("InitTree should reset the selection, got %v", rec.selected)
	}
	f := rec.last(t)
	if f.Viewport == nil || f.Viewport.Duration != 0 {
		t.Fatalf("InitTree should center instantly, got %+v", f.Viewport)
	}
	mid, _ := c.Layout().Find(2)
	if x, y := f.Viewport.To.Apply(mid.X, mid.Y); x != 500 || y != 300 {
		t.Errorf("middle child at (%v, %v), want viewer center", x, y)
	}
}

func TestInitEmptyTreeCentersOnRoot(t *testing.T) {
	root := schema.NewRoot(0)
	var frames []Frame
	c := New(root, Options{OnFrame: func(f Frame) { frames = append(frames, f) }})

	if err := c.InitTree(); err != nil {
		t.Fatalf("InitTree failed: %v", err)
	}
	r := c.Layout().Root
	if x, y := frames[0].Viewport.To.Apply(r.X, r.Y); x != 600 || y != 400 {
		t.Errorf("root at (%v, %v), want viewer center", x, y)
	}
}

func TestToggleLeafIsNoop(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	before := len(rec.frames)

	if err := c.ClickCircle(1); err != nil {
		t.Fatalf("ClickCircle failed: %v", err)
	}
	if len(rec.frames) != before {
		t.Error("toggling a leaf should not draw")
	}
}

func TestExpandCentersOnMiddleChild(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}

	if err := c.ClickCircle(2); err != nil {
		t.Fatalf("ClickCircle failed: %v", err)
	}

	if !node(t, c, 2).Visible() {
		t.Fatal("b should be open")
	}
	f := rec.last(t)
	if f.Viewport == nil || f.Viewport.Duration != 400*time.Millisecond {
		t.Fatalf("expected animated centering, got %+v", f.Viewport)
	}
	mid, _ := c.Layout().Find(5) // b2 is children[1] of two
	if x, y := f.Viewport.To.Apply(mid.X, mid.Y); x != 500 || y != 300 {
		t.Errorf("middle child at (%v, %v), want viewer center", x, y)
	}
	if len(f.Scene.Nodes.Enter) != 2 {
		t.Errorf("expected 2 entering nodes, got %d", len(f.Scene.Nodes.Enter))
	}
}

func TestCollapseResetsSubtree(t *testing.T) {
	c, _ := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	b, b1 := node(t, c, 2), node(t, c, 3)

	for _, step := range []func() error{
		func() error { return c.ExpandNode(b) },
		func() error { return c.ExpandNode(b1) },
		func() error { return c.ToggleNode(b) },
		func() error { return c.ToggleNode(b) },
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	if b1.Visible() {
		t.Error("b1 should render collapsed after its ancestor was collapsed")
	}
	if _, ok := c.Scene().Node(4); ok {
		t.Error("b1's child should not be drawn")
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 5, 6}, c.Scene().NodeIDs()); diff != "" {
		t.Errorf("drawn nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestFocusExpandsAncestors(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	x := node(t, c, 4)

	if err := c.FocusOnNode(x); err != nil {
		t.Fatalf("FocusOnNode failed: %v", err)
	}

	if !node(t, c, 2).Visible() || !node(t, c, 3).Visible() {
		t.Error("ancestors should be opened")
	}
	if x.Visible() {
		t.Error("the target itself should keep its state")
	}
	if id, ok := c.Scene().Selected(); !ok || id != 4 {
		t.Errorf("expected node 4 selected, got %d", id)
	}
	f := rec.last(t)
	if f.Scene.Selected != 4 {
		t.Errorf("frame should carry the selection, got %d", f.Scene.Selected)
	}
	placed, _ := c.Layout().Find(4)
	if sx, sy := f.Viewport.To.Apply(placed.X, placed.Y); sx != 500 || sy != 300 {
		t.Errorf("focused node at (%v, %v), want viewer center", sx, sy)
	}
}

func TestFocusOnDrawnNodeDoesNotRedraw(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}

	if err := c.FocusOnNode(node(t, c, 6)); err != nil {
		t.Fatalf("FocusOnNode failed: %v", err)
	}
	f := rec.last(t)
	if !f.Scene.Empty() {
		t.Errorf("focusing a drawn node should not change elements, got %+v", f.Scene)
	}
	if err := c.FocusOnNode(node(t, c, 1)); err != nil {
		t.Fatal(err)
	}
	if id, _ := c.Scene().Selected(); id != 1 {
		t.Errorf("selection should move to 1, got %d", id)
	}
}

func TestFocusForeignNodeFails(t *testing.T) {
	c, _ := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	other := schema.NewProperty(1, schema.Property{Name: "a", Type: schema.TypeString})
	if err := c.FocusOnNode(other); !errors.Is(err, schema.ErrInvariantViolation) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

func TestClickLabelSelectsWithoutToggle(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}

	if err := c.ClickLabel(2); err != nil {
		t.Fatalf("ClickLabel failed: %v", err)
	}
	if got := rec.selected[len(rec.selected)-1]; got == nil || got.ID() != 2 {
		t.Errorf("expected node 2 selected, got %v", got)
	}
	if node(t, c, 2).Visible() {
		t.Error("clicking a label must not toggle")
	}
	if err := c.ClickLabel(4); !errors.Is(err, schema.ErrInvariantViolation) {
		t.Errorf("clicking an undrawn node should fail, got %v", err)
	}
}

func TestClearTree(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}

	c.ClearTree()

	f := rec.last(t)
	if diff := cmp.Diff([]int{0, 1, 2, 6}, f.Scene.Nodes.Exit); diff != "" {
		t.Errorf("exit mismatch (-want +got):\n%s", diff)
	}
	if len(c.Scene().NodeIDs()) != 0 || c.Layout() != nil {
		t.Error("tree should be empty after clear")
	}
}

func TestZoomFramesOnlyMoveCamera(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}

	c.ZoomIn()
	f := rec.last(t)
	if !f.Scene.Empty() || f.Viewport == nil || f.Viewport.To.K <= 1 {
		t.Errorf("unexpected zoom frame %+v", f)
	}
	c.ResetZoom()
	if c.Zoom().Scale() != 1 {
		t.Errorf("expected scale 1, got %v", c.Zoom().Scale())
	}
}

func TestOpenFocuses(t *testing.T) {
	root, err := schema.ParseBytes("doc.json", []byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	x, err := schema.NodeAt(root, []int{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}

	c, err := Open(root, Options{}, x)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if id, ok := c.Scene().Selected(); !ok || id != 4 {
		t.Errorf("expected node 4 selected, got %d", id)
	}
	if _, err := Open(root, Options{}, schema.NewRoot(0)); !errors.Is(err, schema.ErrInvariantViolation) {
		t.Errorf("focusing a foreign node should fail, got %v", err)
	}
}

func TestExpandAll(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}

	if err := c.ExpandAll(); err != nil {
		t.Fatalf("ExpandAll failed: %v", err)
	}

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6}, c.Scene().NodeIDs()); diff != "" {
		t.Errorf("drawn nodes mismatch (-want +got):\n%s", diff)
	}
	r := c.Layout().Root
	if x, y := rec.last(t).Viewport.To.Apply(r.X, r.Y); math.Abs(x-500) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Errorf("root at (%v, %v), want viewer center", x, y)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	before := c.Zoom().Transform()
	mx, my := before.Invert(200, 100)

	c.ZoomAt(200, 100, 2)
	f := rec.last(t)
	if f.Viewport == nil || f.Viewport.To.K != 2 {
		t.Fatalf("unexpected wheel frame %+v", f.Viewport)
	}
	if x, y := f.Viewport.To.Apply(mx, my); math.Abs(x-200) > 1e-9 || math.Abs(y-100) > 1e-9 {
		t.Errorf("cursor point moved to (%v, %v)", x, y)
	}

	n := len(rec.frames)
	c.ZoomAt(200, 100, 0)
	if len(rec.frames) != n {
		t.Error("a non-positive factor should be ignored")
	}
}

func TestDoubleClickFollowsConfig(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	n := len(rec.frames)
	c.DoubleClick(10, 10)
	if len(rec.frames) != n {
		t.Error("double click zoom is off by default")
	}

	root, err := schema.ParseBytes("doc.json", []byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	cfg := viewport.DefaultConfig()
	cfg.DoubleClickZoom = true
	var frames []Frame
	on := New(root, Options{
		Zoom:    viewport.New(cfg, 1000, 600),
		OnFrame: func(f Frame) { frames = append(frames, f) },
	})
	on.DoubleClick(10, 10)
	if len(frames) != 1 || frames[0].Viewport.To.K != 2 {
		t.Errorf("expected a 2x zoom frame, got %+v", frames)
	}
}

func TestExpandHiddenNodeLeavesItClosed(t *testing.T) {
	c, rec := newController(t)
	if err := c.InitTree(); err != nil {
		t.Fatal(err)
	}
	b, b1 := node(t, c, 2), node(t, c, 3)
	before := len(rec.frames)

	if err := c.ToggleNode(b1); !errors.Is(err, schema.ErrInvariantViolation) {
		t.Fatalf("expanding a node under a closed parent should fail, got %v", err)
	}
	if b1.Visible() {
		t.Error("a failed expand must not leave the node open")
	}
	if len(rec.frames) != before {
		t.Error("a failed expand should not draw")
	}

	if err := c.ExpandNode(b); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Scene().Node(4); ok {
		t.Error("b1's child should not be drawn after opening b")
	}
}
