package schema

// Labeler formats the display label of a node. Layout measures the same
// string the renderer draws, so both must share one Labeler.
type Labeler func(*Node) string

const objectSuffix = "{ }"

// Label is the default Labeler:
//
//	root            schema{ }
//	object          name{ }
//	union / map     name[oneOf]
//	array           name[itemType] or name[ ]
//	other           name(type), plus * when required
//	class           ClassName{ }
func Label(n *Node) string {
	return Match(n,
		func() string { return "schema" + objectSuffix },
		func(p Property) string { return p.Name + typeSuffix(n, p) + requiredSuffix(p) },
		func(c Class) string { return c.Name + objectSuffix },
	)
}

func typeSuffix(n *Node, p Property) string {
	switch {
	case p.Type == TypeObject:
		return objectSuffix
	case p.Type.IsClassSelection():
		return "[" + string(p.Type) + "]"
	case p.Type == TypeArray:
		if n.HasChildren() || p.TypeDetails == "" {
			return "[ ]"
		}
		return "[" + p.TypeDetails + "]"
	default:
		return "(" + string(p.Type) + ")"
	}
}

func requiredSuffix(p Property) string {
	if p.Required {
		return "*"
	}
	return ""
}
