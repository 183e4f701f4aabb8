package schema

// Details is the read-only summary shown for a selected node.
type Details struct {
	ID          int    `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Deprecated  bool   `json:"deprecated"`
}

// Name is the bare name of a node: property name, class name, or "Schema" for the root.
func Name(n *Node) string {
	return Match(n,
		func() string { return "Schema" },
		func(p Property) string { return p.Name },
		func(c Class) string { return c.Name },
	)
}

// TypeText describes the node type, e.g. "array: SomeClass" or "object: Csv extends DataObject".
func TypeText(n *Node) string {
	return Match(n,
		func() string { return "object" },
		func(p Property) string {
			if p.TypeDetails != "" {
				return string(p.Type) + ": " + p.TypeDetails
			}
			return string(p.Type)
		},
		func(c Class) string {
			if c.BaseClass != "" {
				return "object: " + c.Name + " extends " + c.BaseClass
			}
			return "object: " + c.Name
		},
	)
}

// Description returns the markdown description, empty if there is none.
func Description(n *Node) string {
	return Match(n,
		func() string { return "" },
		func(p Property) string { return p.Description },
		func(c Class) string { return c.Description },
	)
}

// Deprecated reports the deprecated flag. Roots are never deprecated.
func Deprecated(n *Node) bool {
	return Match(n,
		func() bool { return false },
		func(p Property) bool { return p.Deprecated },
		func(c Class) bool { return c.Deprecated },
	)
}

// Describe collects the details of n.
func Describe(n *Node) Details {
	return Details{
		ID:          n.ID(),
		Kind:        n.Kind().String(),
		Name:        Name(n),
		Type:        TypeText(n),
		Description: Description(n),
		Deprecated:  Deprecated(n),
	}
}
