package graph

import (
	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/msalah0e/schemaview/internal/schema"
)

// DefaultContext is the number of unchanged outline lines around a change.
const DefaultContext = 3

// Diff returns a unified diff of the full plain outlines of a and b, or ""
// when they are the same.
func Diff(aName, bName string, a, b *schema.Node, context int) (string, error) {
	if context <= 0 {
		context = DefaultContext
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Outline(a, OutlineOptions{})),
		B:        difflib.SplitLines(Outline(b, OutlineOptions{})),
		FromFile: aName,
		ToFile:   bName,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}
