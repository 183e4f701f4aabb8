// Package tree drives the interactive schema tree: which nodes are open,
// when to re-layout, what to select and where to point the camera.
package tree

import (
	"fmt"
	"time"

	"github.com/msalah0e/schemaview/internal/layout"
	"github.com/msalah0e/schemaview/internal/render"
	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/viewport"
)

// Frame is everything a client applies after one operation: the element
// patch and, when the camera moved, the viewport transition.
type Frame struct {
	Scene    render.Frame         `json:"scene"`
	Viewport *viewport.Transition `json:"viewport,omitempty"`
}

// Options wires a controller. Zero values get defaults.
type Options struct {
	Engine    *layout.Engine
	Renderer  *render.Renderer
	Zoom      *viewport.Zoom
	Animation time.Duration

	// OnSelect is called with the node whose label was clicked, or nil when
	// the selection is reset.
	OnSelect func(*schema.Node)
	// OnFrame receives every frame produced by an operation.
	OnFrame func(Frame)
}

// Controller owns the visibility state of one parsed tree. It is not safe
// for concurrent use; callers serialize operations.
type Controller struct {
	root      *schema.Node
	engine    *layout.Engine
	renderer  *render.Renderer
	zoom      *viewport.Zoom
	scene     *render.Scene
	animation time.Duration
	onSelect  func(*schema.Node)
	onFrame   func(Frame)

	index  map[int]*schema.Node
	layout *layout.Tree
}

// New returns a controller for root. Nothing is drawn until InitTree.
func New(root *schema.Node, opts Options) *Controller {
	if opts.Animation == 0 {
		opts.Animation = 400 * time.Millisecond
	}
	if opts.Engine == nil {
		opts.Engine = layout.New(layout.DefaultConfig(), nil)
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(render.DefaultPalette(), nil, opts.Animation)
	}
	if opts.Zoom == nil {
		opts.Zoom = viewport.New(viewport.DefaultConfig(), 1200, 800)
	}
	c := &Controller{
		root:      root,
		engine:    opts.Engine,
		renderer:  opts.Renderer,
		zoom:      opts.Zoom,
		scene:     render.NewScene(),
		animation: opts.Animation,
		onSelect:  opts.OnSelect,
		onFrame:   opts.OnFrame,
		index:     map[int]*schema.Node{},
	}
	root.Walk(func(n *schema.Node) { c.index[n.ID()] = n })
	return c
}

func (c *Controller) Root() *schema.Node { return c.root }

func (c *Controller) Scene() *render.Scene { return c.scene }

func (c *Controller) Zoom() *viewport.Zoom { return c.zoom }

// Layout returns the most recent layout, nil before the first draw.
func (c *Controller) Layout() *layout.Tree { return c.layout }

// Node looks a node up by id.
func (c *Controller) Node(id int) (*schema.Node, bool) {
	n, ok := c.index[id]
	return n, ok
}

// InitTree closes every node except the root, clears the selection, draws
// and centers instantly on the middle child of the root.
func (c *Controller) InitTree() error {
	c.notifySelect(nil)
	c.scene.Unselect()
	c.root.Walk(func(n *schema.Node) { n.SetVisible(n == c.root) })
	frame, err := c.draw()
	if err != nil {
		return err
	}
	target := c.layout.Root
	if mid := target.MiddleChild(); mid != nil {
		target = mid
	}
	frame.Viewport = c.center(target, 0)
	c.emit(frame)
	return nil
}

// Open returns a controller showing root the way a fresh viewer does, then
// focused on focus when it is not nil. It is the starting point of static
// snapshots.
func Open(root *schema.Node, opts Options, focus *schema.Node) (*Controller, error) {
	c := New(root, opts)
	if err := c.InitTree(); err != nil {
		return nil, err
	}
	if focus != nil {
		if err := c.FocusOnNode(focus); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ExpandAll opens every node and centers on the root.
func (c *Controller) ExpandAll() error {
	c.root.Walk(func(n *schema.Node) { n.SetVisible(true) })
	frame, err := c.draw()
	if err != nil {
		return err
	}
	frame.Viewport = c.center(c.layout.Root, c.animation)
	c.emit(frame)
	return nil
}

// ClearTree removes every drawn element.
func (c *Controller) ClearTree() {
	c.layout = nil
	c.emit(Frame{Scene: c.scene.Clear()})
}

// FocusOnNode selects n and centers on it. If n is not drawn, its ancestors
// are opened first; n itself keeps its own open state.
func (c *Controller) FocusOnNode(n *schema.Node) error {
	if err := c.owns(n); err != nil {
		return err
	}
	var frame Frame
	placed, ok := c.placed(n)
	if !ok {
		for p := n.Parent(); p != nil; p = p.Parent() {
			p.SetVisible(true)
		}
		var err error
		if frame, err = c.draw(); err != nil {
			return err
		}
		if placed, ok = c.placed(n); !ok {
			return fmt.Errorf("%w: node %d not laid out after expanding its ancestors", schema.ErrInvariantViolation, n.ID())
		}
	}
	if err := c.scene.Select(n.ID()); err != nil {
		return err
	}
	frame.Scene.Selected = n.ID()
	frame.Viewport = c.center(placed, c.animation)
	c.emit(frame)
	return nil
}

// ToggleNode collapses an open node and expands a closed one. Leaves are ignored.
func (c *Controller) ToggleNode(n *schema.Node) error {
	if !n.HasChildren() {
		return nil
	}
	if n.Visible() {
		return c.CollapseNode(n)
	}
	return c.ExpandNode(n)
}

// ExpandNode opens n and centers on its middle child. n must be drawn, so
// every ancestor has to be open.
func (c *Controller) ExpandNode(n *schema.Node) error {
	if err := c.owns(n); err != nil {
		return err
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !p.Visible() {
			return fmt.Errorf("%w: node %d is hidden under closed node %d", schema.ErrInvariantViolation, n.ID(), p.ID())
		}
	}
	n.SetVisible(true)
	frame, err := c.draw()
	if err != nil {
		n.SetVisible(false)
		return err
	}
	placed, ok := c.placed(n)
	if !ok {
		n.SetVisible(false)
		return fmt.Errorf("%w: could not find node %d after expanding it", schema.ErrInvariantViolation, n.ID())
	}
	target := placed
	if mid := placed.MiddleChild(); mid != nil {
		target = mid
	}
	frame.Viewport = c.center(target, c.animation)
	c.emit(frame)
	return nil
}

// CollapseNode closes n and its whole subtree, so re-expanding n later shows
// only its direct children, then centers on n.
func (c *Controller) CollapseNode(n *schema.Node) error {
	if err := c.owns(n); err != nil {
		return err
	}
	n.Walk(func(d *schema.Node) { d.SetVisible(false) })
	frame, err := c.draw()
	if err != nil {
		return err
	}
	placed, ok := c.placed(n)
	if !ok {
		return fmt.Errorf("%w: could not find node %d after collapsing it", schema.ErrInvariantViolation, n.ID())
	}
	frame.Viewport = c.center(placed, c.animation)
	c.emit(frame)
	return nil
}

// ClickCircle handles a click on the circle of a drawn node.
func (c *Controller) ClickCircle(id int) error {
	n, err := c.drawn(id)
	if err != nil {
		return err
	}
	return c.ToggleNode(n)
}

// ClickLabel handles a click on the label of a drawn node: it notifies the
// selection listener without changing visibility.
func (c *Controller) ClickLabel(id int) error {
	n, err := c.drawn(id)
	if err != nil {
		return err
	}
	c.notifySelect(n)
	return nil
}

// ZoomIn, ZoomOut, ResetZoom and Pan move only the camera.
func (c *Controller) ZoomIn() { c.emitViewport(c.zoom.ZoomIn()) }

func (c *Controller) ZoomOut() { c.emitViewport(c.zoom.ZoomOut()) }

func (c *Controller) ResetZoom() { c.emitViewport(c.zoom.ResetScale()) }

func (c *Controller) Pan(dx, dy float64) { c.emitViewport(c.zoom.Pan(dx, dy)) }

// ZoomAt scales by factor around the screen point (px, py).
func (c *Controller) ZoomAt(px, py, factor float64) {
	if factor <= 0 {
		return
	}
	c.emitViewport(c.zoom.ZoomAt(px, py, factor))
}

// DoubleClick zooms in around (px, py) when the camera allows it.
func (c *Controller) DoubleClick(px, py float64) {
	if tr, ok := c.zoom.DoubleClick(px, py); ok {
		c.emitViewport(tr)
	}
}

// Resize records a new viewer size; the next draw uses it.
func (c *Controller) Resize(width, height float64) { c.zoom.Resize(width, height) }

func (c *Controller) draw() (Frame, error) {
	c.layout = c.engine.Layout(c.root, c.zoom.Width())
	f, err := c.renderer.Render(c.scene, c.layout)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Scene: f}, nil
}

func (c *Controller) placed(n *schema.Node) (*layout.Node, bool) {
	if c.layout == nil {
		return nil, false
	}
	return c.layout.Find(n.ID())
}

func (c *Controller) drawn(id int) (*schema.Node, error) {
	if _, ok := c.scene.Node(id); !ok {
		return nil, fmt.Errorf("%w: node %d is not drawn", schema.ErrInvariantViolation, id)
	}
	n, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown node %d", schema.ErrInvariantViolation, id)
	}
	return n, nil
}

func (c *Controller) owns(n *schema.Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", schema.ErrInvariantViolation)
	}
	if c.index[n.ID()] != n {
		return fmt.Errorf("%w: node %v does not belong to this tree", schema.ErrInvariantViolation, n)
	}
	return nil
}

func (c *Controller) center(n *layout.Node, d time.Duration) *viewport.Transition {
	tr := c.zoom.Center(n.X, n.Y, d)
	return &tr
}

func (c *Controller) notifySelect(n *schema.Node) {
	if c.onSelect != nil {
		c.onSelect(n)
	}
}

func (c *Controller) emit(f Frame) {
	if c.onFrame != nil {
		c.onFrame(f)
	}
}

func (c *Controller) emitViewport(tr viewport.Transition) {
	sel, _ := c.scene.Selected()
	c.emit(Frame{Scene: render.Frame{Selected: sel}, Viewport: &tr})
}
