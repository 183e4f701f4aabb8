// Package graph prints schema trees for the terminal and for Graphviz, and
// compares two trees.
package graph

import (
	"strings"

	"github.com/msalah0e/schemaview/internal/schema"
)

// Style colors the parts of an outline. Nil funcs leave text unchanged.
type Style struct {
	Root       func(string) string
	Property   func(string) string
	Class      func(string) string
	Deprecated func(string) string
	Branch     func(string) string
}

// OutlineOptions controls Outline.
type OutlineOptions struct {
	// MaxDepth stops descending below that depth. 0 means no limit.
	MaxDepth int
	// VisibleOnly follows the open state of the nodes, like the viewer.
	VisibleOnly bool
	Style       Style
	Label       schema.Labeler
}

// Outline renders the tree under root with box-drawing branches:
//
//	schema{ }
//	├── a(string)
//	└── b{ }
//	    └── c(integer)
//
// A node whose children were cut by MaxDepth ends in " …".
func Outline(root *schema.Node, opts OutlineOptions) string {
	if opts.Label == nil {
		opts.Label = schema.Label
	}
	var b strings.Builder
	b.WriteString(opts.label(root, 0))
	b.WriteByte('\n')
	opts.children(&b, root, "", 1)
	return b.String()
}

func (o OutlineOptions) children(b *strings.Builder, n *schema.Node, prefix string, depth int) {
	kids := n.Children()
	if o.VisibleOnly {
		kids = n.VisibleChildren()
	}
	for i, c := range kids {
		branch, next := "├── ", "│   "
		if i == len(kids)-1 {
			branch, next = "└── ", "    "
		}
		b.WriteString(apply(o.Style.Branch, prefix+branch))
		b.WriteString(o.label(c, depth))
		b.WriteByte('\n')
		if o.MaxDepth > 0 && depth >= o.MaxDepth {
			continue
		}
		o.children(b, c, prefix+next, depth+1)
	}
}

func (o OutlineOptions) label(n *schema.Node, depth int) string {
	text := o.Label(n)
	if o.truncated(n, depth) {
		text += " …"
	}
	switch {
	case schema.Deprecated(n):
		return apply(o.Style.Deprecated, text)
	case n.Kind() == schema.KindRoot:
		return apply(o.Style.Root, text)
	case n.Kind() == schema.KindClass:
		return apply(o.Style.Class, text)
	default:
		return apply(o.Style.Property, text)
	}
}

func (o OutlineOptions) truncated(n *schema.Node, depth int) bool {
	if o.MaxDepth <= 0 || depth < o.MaxDepth {
		return false
	}
	if o.VisibleOnly {
		return len(n.VisibleChildren()) > 0
	}
	return n.HasChildren()
}

func apply(fn func(string) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}
