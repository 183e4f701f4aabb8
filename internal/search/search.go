// Package search finds schema nodes by name.
package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/msalah0e/schemaview/internal/schema"
)

// MinChars is the shortest query that returns results.
const MinChars = 2

// Option is one searchable node.
type Option struct {
	Label string
	// Ancestors are the names from the top-level property down to the node,
	// the node included. The root is never part of it.
	Ancestors []string
	Node      *schema.Node
}

// Trail joins the ancestors the way they are displayed: "a>b>c".
func (o Option) Trail() string { return strings.Join(o.Ancestors, ">") }

// Index lists every node below root, sorted by label.
func Index(root *schema.Node) []Option {
	var opts []Option
	var add func(n *schema.Node, parents []string)
	add = func(n *schema.Node, parents []string) {
		name := schema.Name(n)
		ancestors := append(slices.Clip(parents), name)
		opts = append(opts, Option{Label: name, Ancestors: ancestors, Node: n})
		for _, c := range n.Children() {
			add(c, ancestors)
		}
	}
	for _, c := range root.Children() {
		add(c, nil)
	}
	slices.SortStableFunc(opts, func(a, b Option) int {
		if c := strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label)); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return opts
}

// Find returns the options whose label contains query, ignoring case. A
// query shorter than minChars matches nothing.
func Find(opts []Option, query string, minChars int) []Option {
	if utf8.RuneCountInString(query) < minChars {
		return nil
	}
	q := strings.ToLower(query)
	var out []Option
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Label), q) {
			out = append(out, o)
		}
	}
	return out
}
