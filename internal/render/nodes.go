package render

import (
	"time"
	"unicode/utf8"

	"github.com/msalah0e/schemaview/internal/layout"
	"github.com/msalah0e/schemaview/internal/schema"
)

const (
	CircleRadius = 7.5
	TextOffset   = 12
)

// Palette holds the colors of the tree.
type Palette struct {
	ExpandedCircle  string
	CollapsedCircle string
	CircleBorder    string
	DeprecatedText  string
	Link            string
}

// DefaultPalette matches the light theme of the web viewer.
func DefaultPalette() Palette {
	return Palette{
		ExpandedCircle:  "white",
		CollapsedCircle: "#c8dae9",
		CircleBorder:    "#4682b4",
		DeprecatedText:  "orange",
		Link:            "lightgrey",
	}
}

// Measurer returns the rendered width of a label in pixels.
type Measurer func(label string) float64

// FixedWidth measures every character as charWidth pixels wide.
func FixedWidth(charWidth float64) Measurer {
	return func(label string) float64 {
		return float64(utf8.RuneCountInString(label)) * charWidth
	}
}

// NodePainter reconciles node groups.
type NodePainter struct {
	palette Palette
	measure Measurer
}

func NewNodePainter(p Palette, m Measurer) *NodePainter {
	if m == nil {
		m = FixedWidth(7)
	}
	return &NodePainter{palette: p, measure: m}
}

func (p *NodePainter) fill(n *schema.Node) string {
	if n.HasChildren() && len(n.VisibleChildren()) == 0 {
		return p.palette.CollapsedCircle
	}
	return p.palette.ExpandedCircle
}

func (p *NodePainter) element(n *layout.Node) NodeElement {
	e := NodeElement{
		ID:         n.ID(),
		ElementID:  ElementID(n.ID()),
		X:          n.X,
		Y:          n.Y,
		Label:      n.Label,
		Fill:       p.fill(n.Schema),
		Width:      CircleRadius + TextOffset + p.measure(n.Label),
		Toggleable: n.Schema.HasChildren(),
	}
	if schema.Deprecated(n.Schema) {
		e.TextColor = p.palette.DeprecatedText
	}
	return e
}

// Paint binds the laid-out nodes to the scene by id. New ids enter at their
// final position, known ids whose position or fill changed are updated, and
// ids no longer laid out exit. Exiting the selected node clears the selection.
func (p *NodePainter) Paint(scene *Scene, tree *layout.Tree) NodePatch {
	var patch NodePatch
	seen := make(map[int]bool, len(tree.Nodes))
	for _, n := range tree.Nodes {
		e := p.element(n)
		seen[e.ID] = true
		old, ok := scene.nodes[e.ID]
		switch {
		case !ok:
			patch.Enter = append(patch.Enter, e)
		case old.X != e.X || old.Y != e.Y || old.Fill != e.Fill:
			patch.Update = append(patch.Update, e)
		}
		scene.nodes[e.ID] = e
	}
	for _, id := range scene.NodeIDs() {
		if seen[id] {
			continue
		}
		patch.Exit = append(patch.Exit, id)
		delete(scene.nodes, id)
		if scene.selected == id {
			scene.selected = -1
		}
	}
	return patch
}

// Renderer runs the node and link painters in order: links need the node
// widths of the same frame.
type Renderer struct {
	Nodes    *NodePainter
	Links    *LinkPainter
	Duration time.Duration
}

// NewRenderer returns a renderer animating updates over duration.
func NewRenderer(p Palette, m Measurer, duration time.Duration) *Renderer {
	return &Renderer{
		Nodes:    NewNodePainter(p, m),
		Links:    NewLinkPainter(),
		Duration: duration,
	}
}

// Render reconciles tree against scene and returns the patch.
func (r *Renderer) Render(scene *Scene, tree *layout.Tree) (Frame, error) {
	nodes := r.Nodes.Paint(scene, tree)
	links, err := r.Links.Paint(scene, tree)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		Nodes:      nodes,
		Links:      links,
		Selected:   scene.selected,
		Duration:   r.Duration,
		DurationMS: r.Duration.Milliseconds(),
	}, nil
}
