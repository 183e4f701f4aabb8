package render

import (
	"fmt"
	"slices"

	"github.com/msalah0e/schemaview/internal/layout"
	"github.com/msalah0e/schemaview/internal/schema"
)

const (
	// ElbowOffset is how far before the target column a link turns vertical.
	ElbowOffset     = 30
	LinkStrokeWidth = 2
)

// LinkPainter reconciles the elbow links. Nodes must be painted first.
type LinkPainter struct{}

func NewLinkPainter() *LinkPainter { return &LinkPainter{} }

// Points routes a link from the right edge of the source group to the
// target: across to the elbow, down to the target row, then into the target.
func Points(from NodeElement, to *layout.Node) []Point {
	return []Point{
		{X: from.X + from.Width, Y: from.Y},
		{X: to.X - ElbowOffset, Y: from.Y},
		{X: to.X - ElbowOffset, Y: to.Y},
		{X: to.X, Y: to.Y},
	}
}

// Paint binds the tree links to the scene by target id.
func (p *LinkPainter) Paint(scene *Scene, tree *layout.Tree) (LinkPatch, error) {
	var patch LinkPatch
	seen := make(map[int]bool, len(tree.Links))
	for _, l := range tree.Links {
		from, ok := scene.nodes[l.Source.ID()]
		if !ok {
			return patch, fmt.Errorf("%w: no element %s for link source", schema.ErrInvariantViolation, ElementID(l.Source.ID()))
		}
		e := LinkElement{ID: l.Target.ID(), Source: from.ID, Points: Points(from, l.Target)}
		seen[e.ID] = true
		old, ok := scene.links[e.ID]
		switch {
		case !ok:
			patch.Enter = append(patch.Enter, e)
		case !slices.Equal(old.Points, e.Points):
			patch.Update = append(patch.Update, e)
		}
		scene.links[e.ID] = e
	}
	for _, id := range scene.LinkIDs() {
		if !seen[id] {
			patch.Exit = append(patch.Exit, id)
			delete(scene.links, id)
		}
	}
	return patch, nil
}
