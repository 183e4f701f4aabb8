package schema

import "fmt"

// Kind discriminates the three node variants.
type Kind int

const (
	KindRoot Kind = iota
	KindProperty
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindProperty:
		return "property"
	case KindClass:
		return "class"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is the classified type of a property.
type Type string

const (
	TypeOneOf   Type = "oneOf"
	TypeAnyOf   Type = "anyOf"
	TypeAllOf   Type = "allOf"
	TypeMapOf   Type = "mapOf"
	TypeEnum    Type = "enum"
	TypeConst   Type = "const"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeNull    Type = "null"
	TypeAny     Type = "any"
)

// IsClassSelection reports whether t is a choice among named classes.
func (t Type) IsClassSelection() bool {
	switch t {
	case TypeOneOf, TypeAnyOf, TypeAllOf, TypeMapOf:
		return true
	}
	return false
}

// scalarTypes are the "type" keyword values taken verbatim.
var scalarTypes = map[string]Type{
	"string":  TypeString,
	"number":  TypeNumber,
	"integer": TypeInteger,
	"boolean": TypeBoolean,
	"null":    TypeNull,
	"any":     TypeAny,
}

// Property holds the fields of a property node.
type Property struct {
	Name        string
	Type        Type
	TypeDetails string // empty when absent
	Required    bool
	Deprecated  bool
	Description string
}

// Class holds the fields of a class node.
type Class struct {
	Name        string
	Deprecated  bool
	BaseClass   string // empty when the class has no named family
	Description string
}

// Node is one element of a schema tree. The variant and its fields are fixed
// at construction; only visibility and the parent/children links change later.
type Node struct {
	id       int
	kind     Kind
	property Property
	class    Class

	parent   *Node
	children []*Node
	visible  bool
}

// NewRoot creates the synthetic root. Roots start open.
func NewRoot(id int) *Node {
	return &Node{id: id, kind: KindRoot, visible: true}
}

// NewProperty creates a property node.
func NewProperty(id int, p Property) *Node {
	return &Node{id: id, kind: KindProperty, property: p}
}

// NewClass creates a class node.
func NewClass(id int, c Class) *Node {
	return &Node{id: id, kind: KindClass, class: c}
}

func (n *Node) ID() int { return n.id }

func (n *Node) Kind() Kind { return n.kind }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Property returns the property fields; ok is false for other variants.
func (n *Node) Property() (Property, bool) {
	return n.property, n.kind == KindProperty
}

// Class returns the class fields; ok is false for other variants.
func (n *Node) Class() (Class, bool) {
	return n.class, n.kind == KindClass
}

// Children returns the children in declaration order. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// HasChildren reports whether the node has any children, visible or not.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// Visible reports whether the node's children are displayed.
func (n *Node) Visible() bool { return n.visible }

// SetVisible opens or closes the node.
func (n *Node) SetVisible(v bool) { n.visible = v }

// VisibleChildren is the projection used by layout: the children when open, nothing otherwise.
func (n *Node) VisibleChildren() []*Node {
	if !n.visible {
		return nil
	}
	return n.children
}

// AddChild appends child and makes n its parent. A node can only be owned once.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child added to node %d", ErrInvariantViolation, n.id)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: node %d cannot be assigned to multiple parent nodes", ErrInvariantViolation, child.id)
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			return fmt.Errorf("%w: node %d cannot become its own descendant", ErrInvariantViolation, child.id)
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// Index returns the position of n among its parent's children, or -1 for a root.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Walk visits n and all its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) { total++ })
	return total
}

// Match dispatches on the node variant. Every variant needs a handler, so
// adding a variant breaks every call site at compile time.
func Match[T any](n *Node, root func() T, property func(Property) T, class func(Class) T) T {
	switch n.kind {
	case KindRoot:
		return root()
	case KindProperty:
		return property(n.property)
	case KindClass:
		return class(n.class)
	}
	panic(fmt.Sprintf("schema: unknown node kind %d", int(n.kind)))
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d(%s)", n.kind, n.id, Name(n))
}
