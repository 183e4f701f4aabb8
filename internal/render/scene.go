// Package render reconciles laid-out trees against the elements drawn so far.
//
// The Scene is the retained "previous frame": one element per node id and one
// link per target id. Painters compare a new layout with it and emit the
// enter/update/exit patch a drawing backend applies.
package render

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/msalah0e/schemaview/internal/schema"
)

// Point is a screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeElement is a drawn node: a circle and a text label in one group.
type NodeElement struct {
	ID         int     `json:"id"`
	ElementID  string  `json:"elementId"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Label      string  `json:"label"`
	Fill       string  `json:"fill"`
	TextColor  string  `json:"textColor,omitempty"`
	Width      float64 `json:"width"`
	Toggleable bool    `json:"toggleable"`
}

// LinkElement is a drawn elbow polyline, keyed by its target node id.
type LinkElement struct {
	ID     int     `json:"id"`
	Source int     `json:"source"`
	Points []Point `json:"points"`
}

// NodePatch lists node changes since the previous frame.
type NodePatch struct {
	Enter  []NodeElement `json:"enter"`
	Update []NodeElement `json:"update"`
	Exit   []int         `json:"exit"`
}

// LinkPatch lists link changes since the previous frame.
type LinkPatch struct {
	Enter  []LinkElement `json:"enter"`
	Update []LinkElement `json:"update"`
	Exit   []int         `json:"exit"`
}

// Frame is one reconciliation result. Updates animate over Duration; enters
// and exits apply immediately. Selected is the selected node id or -1.
type Frame struct {
	Nodes      NodePatch     `json:"nodes"`
	Links      LinkPatch     `json:"links"`
	Selected   int           `json:"selected"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"durationMs"`
}

// Empty reports whether the frame changes nothing.
func (f Frame) Empty() bool {
	return len(f.Nodes.Enter)+len(f.Nodes.Update)+len(f.Nodes.Exit)+
		len(f.Links.Enter)+len(f.Links.Update)+len(f.Links.Exit) == 0
}

// ElementID formats the element id of a node, also used for DOT and SVG output.
func ElementID(id int) string { return fmt.Sprintf("node-%d", id) }

// Scene holds the elements currently on screen.
type Scene struct {
	nodes    map[int]NodeElement
	links    map[int]LinkElement
	selected int
}

func NewScene() *Scene {
	return &Scene{nodes: map[int]NodeElement{}, links: map[int]LinkElement{}, selected: -1}
}

// Node returns the drawn element of a node id.
func (s *Scene) Node(id int) (NodeElement, bool) {
	e, ok := s.nodes[id]
	return e, ok
}

// Link returns the drawn link ending at a node id.
func (s *Scene) Link(id int) (LinkElement, bool) {
	l, ok := s.links[id]
	return l, ok
}

// NodeIDs returns the drawn node ids in ascending order.
func (s *Scene) NodeIDs() []int { return slices.Sorted(maps.Keys(s.nodes)) }

// LinkIDs returns the drawn link ids in ascending order.
func (s *Scene) LinkIDs() []int { return slices.Sorted(maps.Keys(s.links)) }

// Nodes returns the drawn nodes ordered by id.
func (s *Scene) Nodes() []NodeElement {
	out := make([]NodeElement, 0, len(s.nodes))
	for _, id := range s.NodeIDs() {
		out = append(out, s.nodes[id])
	}
	return out
}

// Links returns the drawn links ordered by target id.
func (s *Scene) Links() []LinkElement {
	out := make([]LinkElement, 0, len(s.links))
	for _, id := range s.LinkIDs() {
		out = append(out, s.links[id])
	}
	return out
}

// Selected returns the selected node id.
func (s *Scene) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

// Select marks id as the only selected element. The node must be drawn.
func (s *Scene) Select(id int) error {
	if _, ok := s.nodes[id]; !ok {
		return fmt.Errorf("%w: could not find element %s", schema.ErrInvariantViolation, ElementID(id))
	}
	s.selected = id
	return nil
}

// Unselect clears the selection.
func (s *Scene) Unselect() { s.selected = -1 }

// Clear removes every element and returns the frame that does so on screen.
func (s *Scene) Clear() Frame {
	f := Frame{Selected: -1}
	f.Nodes.Exit = s.NodeIDs()
	f.Links.Exit = s.LinkIDs()
	s.nodes = map[int]NodeElement{}
	s.links = map[int]LinkElement{}
	s.selected = -1
	return f
}
