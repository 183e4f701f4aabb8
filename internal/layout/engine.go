// Package layout computes screen positions for the visible part of a schema tree.
//
// Layout only looks at Node.VisibleChildren, so its cost is bounded by what is
// on screen rather than the size of the schema.
package layout

import (
	"unicode/utf8"

	"github.com/msalah0e/schemaview/internal/schema"
)

// Config controls the spacing of the tree.
type Config struct {
	HeightPerNode    float64 // vertical slot reserved per node of the widest level
	MinLabelSpace    float64 // label length below which levels are not narrowed
	LabelSpaceFactor float64 // horizontal pixels per label character
	LabelSpaceOffset float64 // fixed gap added to every level
}

// DefaultConfig returns the default spacing.
func DefaultConfig() Config {
	return Config{
		HeightPerNode:    35,
		MinLabelSpace:    30,
		LabelSpaceFactor: 8,
		LabelSpaceOffset: 100,
	}
}

// Node is a placed schema node. X grows with depth, Y with sibling order.
type Node struct {
	Schema   *schema.Node
	Parent   *Node
	Children []*Node
	Depth    int
	Label    string
	X, Y     float64

	breadth  float64
	depthPos float64
}

// ID is the schema node id, the stable key used by the renderer.
func (n *Node) ID() int { return n.Schema.ID() }

// MiddleChild returns the child at len/2, or nil when the node is a leaf on screen.
func (n *Node) MiddleChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)/2]
}

func (n *Node) each(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.each(fn)
	}
}

// Link connects a placed node to its parent. Links are keyed by target id.
type Link struct {
	Source *Node
	Target *Node
}

// Tree is one layout pass.
type Tree struct {
	Root   *Node
	Nodes  []*Node // breadth-first
	Links  []Link  // in the order of Nodes, one per non-root node
	Width  float64
	Height float64

	byID map[int]*Node
}

// Find returns the placed node for a schema node id.
func (t *Tree) Find(id int) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Engine lays out trees. It is stateless between calls.
type Engine struct {
	cfg   Config
	label schema.Labeler
}

// New returns an engine. A nil label uses schema.Label.
func New(cfg Config, label schema.Labeler) *Engine {
	if label == nil {
		label = schema.Label
	}
	return &Engine{cfg: cfg, label: label}
}

// Label formats n with the engine's labeler.
func (e *Engine) Label(n *schema.Node) string { return e.label(n) }

// Layout places every node reachable from root through VisibleChildren.
// viewerWidth is the nominal depth extent handed to the tidy walk; the final
// X positions come from the per-level label spacing.
func (e *Engine) Layout(root *schema.Node, viewerWidth float64) *Tree {
	height := float64(MaxVisibleWidth(root)) * e.cfg.HeightPerNode
	top := e.build(root, nil, 0)
	tidy(top, height, viewerWidth)

	t := &Tree{Root: top, Height: height, byID: map[int]*Node{}}
	levels := e.levelPositions(top)
	queue := []*Node{top}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		n.X = levels[n.Depth]
		n.Y = n.breadth
		if n.X > t.Width {
			t.Width = n.X
		}
		t.Nodes = append(t.Nodes, n)
		t.byID[n.ID()] = n
		if n.Parent != nil {
			t.Links = append(t.Links, Link{Source: n.Parent, Target: n})
		}
		queue = append(queue, n.Children...)
	}
	return t
}

func (e *Engine) build(n *schema.Node, parent *Node, depth int) *Node {
	out := &Node{Schema: n, Parent: parent, Depth: depth, Label: e.label(n)}
	for _, c := range n.VisibleChildren() {
		out.Children = append(out.Children, e.build(c, out, depth+1))
	}
	return out
}

// levelPositions returns the X position of every depth: the running sum of
// offset + max(minSpace, longest label) * factor over the shallower levels.
func (e *Engine) levelPositions(root *Node) []float64 {
	var longest []int
	root.each(func(n *Node) {
		for len(longest) <= n.Depth {
			longest = append(longest, 0)
		}
		if l := utf8.RuneCountInString(n.Label); l > longest[n.Depth] {
			longest[n.Depth] = l
		}
	})
	pos := make([]float64, len(longest))
	for d := 1; d < len(longest); d++ {
		space := max(e.cfg.MinLabelSpace, float64(longest[d-1]))
		pos[d] = pos[d-1] + e.cfg.LabelSpaceOffset + space*e.cfg.LabelSpaceFactor
	}
	return pos
}

// MaxVisibleWidth is the largest number of visible nodes on any single level.
func MaxVisibleWidth(root *schema.Node) int {
	widths := []int{1}
	var count func(n *schema.Node, level int)
	count = func(n *schema.Node, level int) {
		visible := n.VisibleChildren()
		if len(visible) == 0 {
			return
		}
		if len(widths) <= level+1 {
			widths = append(widths, 0)
		}
		widths[level+1] += len(visible)
		for _, c := range visible {
			count(c, level+1)
		}
	}
	count(root, 0)
	best := 0
	for _, w := range widths {
		best = max(best, w)
	}
	return best
}
