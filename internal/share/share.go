// Package share encodes the selected schema and node in URL query
// parameters, so a link reopens the viewer on the same node.
package share

import (
	"fmt"
	"net/url"

	"github.com/msalah0e/schemaview/internal/schema"
)

// Query parameter names.
const (
	SchemaParam = "schema"
	PathParam   = "path"
)

// URLToNode returns base with the schema and the path to n set.
func URLToNode(base, schemaName string, n *schema.Node) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	q := u.Query()
	q.Set(SchemaParam, schemaName)
	q.Set(PathParam, schema.EncodePath(schema.PathTo(n)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SchemaFrom returns the schema named in q.
func SchemaFrom(q url.Values) (string, bool) {
	if !q.Has(SchemaParam) {
		return "", false
	}
	return q.Get(SchemaParam), true
}

// NodeFrom resolves the path in q against root. A missing, malformed or
// stale path yields no node.
func NodeFrom(q url.Values, root *schema.Node) (*schema.Node, bool) {
	raw := q.Get(PathParam)
	if raw == "" || root == nil {
		return nil, false
	}
	path, err := schema.DecodePath(raw)
	if err != nil {
		return nil, false
	}
	n, err := schema.NodeAt(root, path)
	if err != nil {
		return nil, false
	}
	return n, true
}

// WithSchema returns a copy of q naming schemaName. A path only makes sense
// for the schema it was made for, so it is dropped when the schema changes.
func WithSchema(q url.Values, schemaName string) url.Values {
	out := clone(q)
	if q.Has(SchemaParam) && q.Get(SchemaParam) == schemaName {
		return out
	}
	out.Set(SchemaParam, schemaName)
	out.Del(PathParam)
	return out
}

// SyncSchema keeps q in step with a schema switch. A query that already
// names a schema follows the switch; one that does not only loses its path.
func SyncSchema(q url.Values, schemaName string) url.Values {
	if q.Has(SchemaParam) {
		return WithSchema(q, schemaName)
	}
	out := clone(q)
	out.Del(PathParam)
	return out
}

// WithNode returns a copy of q pointing at n.
func WithNode(q url.Values, n *schema.Node) url.Values {
	out := clone(q)
	out.Set(PathParam, schema.EncodePath(schema.PathTo(n)))
	return out
}

// SyncNode keeps q in step with a selection. Only a query that already
// carries a path follows it.
func SyncNode(q url.Values, n *schema.Node) url.Values {
	if !q.Has(PathParam) {
		return clone(q)
	}
	return WithNode(q, n)
}

func clone(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
