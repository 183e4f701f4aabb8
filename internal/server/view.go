package server

import (
	"io"

	"github.com/msalah0e/schemaview/internal/layout"
	"github.com/msalah0e/schemaview/internal/render"
	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/tree"
	"github.com/msalah0e/schemaview/internal/viewport"
)

// View is a still of a schema tree as a fresh viewer would draw it.
type View struct {
	Nodes     []render.NodeElement `json:"nodes"`
	Links     []render.LinkElement `json:"links"`
	Selected  int                  `json:"selected"`
	Transform viewport.Transform   `json:"transform"`
	Width     float64              `json:"width"`
	Height    float64              `json:"height"`

	scene *render.Scene
}

// Options returns controller options for one tree drawn with this config.
func (c Config) Options(zoom *viewport.Zoom) tree.Options {
	return tree.Options{
		Engine:    layout.New(c.Layout, nil),
		Renderer:  render.NewRenderer(c.Palette, c.Measurer, c.Animation),
		Zoom:      zoom,
		Animation: c.Animation,
	}
}

// Still draws root, focused on focus when it is set, or with every node
// open when expandAll is true.
func (c Config) Still(root, focus *schema.Node, expandAll bool) (*View, error) {
	zoom := viewport.New(c.Zoom, c.ViewerWidth, c.ViewerHeight)
	ctrl, err := tree.Open(root, c.Options(zoom), focus)
	if err != nil {
		return nil, err
	}
	if expandAll {
		if err := ctrl.ExpandAll(); err != nil {
			return nil, err
		}
	}
	scene := ctrl.Scene()
	selected, ok := scene.Selected()
	if !ok {
		selected = -1
	}
	return &View{
		Nodes:     scene.Nodes(),
		Links:     scene.Links(),
		Selected:  selected,
		Transform: zoom.Transform(),
		Width:     c.ViewerWidth,
		Height:    c.ViewerHeight,
		scene:     scene,
	}, nil
}

// WriteSVG writes v as a standalone SVG document.
func (c Config) WriteSVG(w io.Writer, v *View, title string) error {
	return render.WriteSVG(w, v.scene, render.SVGOptions{
		Width:     v.Width,
		Height:    v.Height,
		Transform: v.Transform,
		Palette:   c.Palette,
		Title:     title,
	})
}
