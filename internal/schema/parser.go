package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// othersSection is the definitions group for classes without a base class.
const othersSection = "Others"

// ParseBytes decodes data (JSON, or YAML when name ends in .yaml/.yml) and parses it.
func ParseBytes(name string, data []byte) (*Node, error) {
	doc, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// Parse builds the node tree of doc. Ids are assigned in pre-order starting at 0
// for the root. Any fragment that cannot be classified aborts the whole parse.
func Parse(doc *Object) (*Node, error) {
	if doc == nil {
		doc = NewObject()
	}
	p := &parser{doc: doc, active: map[string]bool{}}
	root := NewRoot(p.newID())
	props, err := p.parseProperties(doc)
	if err != nil {
		return nil, err
	}
	for _, c := range props {
		if err := root.AddChild(c); err != nil {
			return nil, err
		}
	}
	return root, nil
}

type parser struct {
	doc    *Object
	nextID int
	// refs being expanded on the current descent path
	active map[string]bool
}

func (p *parser) newID() int {
	id := p.nextID
	p.nextID++
	return id
}

func (p *parser) parseProperties(obj *Object) ([]*Node, error) {
	props, ok := obj.Object("properties")
	if !ok {
		return nil, nil
	}
	required := map[string]bool{}
	if names, ok := obj.Array("required"); ok {
		for _, r := range names {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}
	nodes := make([]*Node, 0, props.Len())
	for _, name := range props.Keys() {
		v, _ := props.Get(name)
		frag, ok := v.(*Object)
		if !ok {
			return nil, fmt.Errorf("property %q: %w", name, &ClassificationError{Fragment: formatValue(v), Reason: "schema is not an object"})
		}
		n, err := p.parseProperty(name, required[name], frag)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (p *parser) parseProperty(name string, required bool, frag *Object) (*Node, error) {
	id := p.newID()
	schema, leave, err := p.enter(frag)
	if err != nil {
		return nil, err
	}
	defer leave()

	typ, details, err := p.classify(schema)
	if err != nil {
		return nil, err
	}
	children, err := p.parseChildren(typ, schema)
	if err != nil {
		return nil, err
	}
	hasClasses, err := p.hasClassChildren(typ, schema)
	if err != nil {
		return nil, err
	}
	if hasClasses {
		inferred := inferDetails(children)
		switch {
		case details == "":
			details = inferred
		case inferred != "":
			details += " " + inferred
		}
	}

	desc, _ := schema.String("description")
	n := NewProperty(id, Property{
		Name:        name,
		Type:        typ,
		TypeDetails: details,
		Required:    required,
		Deprecated:  schema.Bool("deprecated"),
		Description: desc,
	})
	for _, c := range children {
		if err := n.AddChild(c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) parseClass(frag *Object) (*Node, error) {
	id := p.newID()
	schema, leave, err := p.enter(frag)
	if err != nil {
		return nil, err
	}
	defer leave()

	title, ok := schema.String("title")
	if !ok || title == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingTitle, compact(schema))
	}
	base := ""
	if ref, ok := frag.String("$ref"); ok {
		base = baseClassOf(ref)
	}
	desc, _ := schema.String("description")
	n := NewClass(id, Class{
		Name:        title,
		Deprecated:  schema.Bool("deprecated"),
		BaseClass:   base,
		Description: desc,
	})
	props, err := p.parseProperties(schema)
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", title, err)
	}
	for _, c := range props {
		if err := n.AddChild(c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) parseChildren(typ Type, schema *Object) ([]*Node, error) {
	hasClasses, err := p.hasClassChildren(typ, schema)
	if err != nil {
		return nil, err
	}
	if hasClasses {
		elems, err := p.classElements(typ, schema)
		if err != nil {
			return nil, err
		}
		nodes := make([]*Node, 0, len(elems))
		for _, e := range elems {
			n, err := p.parseClass(e)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
		return nodes, nil
	}
	if typ == TypeObject {
		return p.parseProperties(schema)
	}
	return nil, nil
}

// classify returns the type of a resolved fragment. The first matching rule wins.
func (p *parser) classify(schema *Object) (Type, string, error) {
	switch {
	case schema.Has("oneOf"):
		return TypeOneOf, "", nil
	case schema.Has("anyOf"):
		return TypeAnyOf, "", nil
	case schema.Has("allOf"):
		return TypeAllOf, "", nil
	case isMap(schema):
		return TypeMapOf, "", nil
	case schema.Has("enum"):
		values, _ := schema.Array("enum")
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = formatValue(v)
		}
		return TypeEnum, strings.Join(parts, ", "), nil
	case schema.Has("const"):
		v, _ := schema.Get("const")
		return TypeConst, formatValue(v), nil
	}

	raw, ok := schema.Get("type")
	if !ok {
		return "", "", &ClassificationError{Fragment: compact(schema)}
	}
	name, ok := raw.(string)
	if !ok {
		return "", "", &ClassificationError{Fragment: compact(schema), Reason: "type must be a single string"}
	}
	switch name {
	case "object":
		title, _ := schema.String("title")
		return TypeObject, title, nil
	case "array":
		item, err := p.arrayItemType(schema)
		if err != nil {
			return "", "", err
		}
		if item == TypeObject {
			return TypeArray, "", nil
		}
		return TypeArray, string(item), nil
	}
	if t, ok := scalarTypes[name]; ok {
		return t, "", nil
	}
	return "", "", &ClassificationError{Fragment: compact(schema), Reason: "unknown type " + strconv.Quote(name)}
}

func isMap(schema *Object) bool {
	ap, ok := schema.Object("additionalProperties")
	return ok && ap.Has("oneOf")
}

// arrayItemType classifies the resolved items schema. Arrays without items hold anything.
func (p *parser) arrayItemType(array *Object) (Type, error) {
	items, ok := array.Object("items")
	if !ok {
		return TypeAny, nil
	}
	resolved, leave, err := p.enter(items)
	if err != nil {
		return "", err
	}
	defer leave()
	t, _, err := p.classify(resolved)
	return t, err
}

func (p *parser) hasClassChildren(typ Type, schema *Object) (bool, error) {
	if typ.IsClassSelection() {
		return true, nil
	}
	if typ != TypeArray {
		return false, nil
	}
	item, err := p.arrayItemType(schema)
	if err != nil {
		return false, err
	}
	return item.IsClassSelection() || item == TypeObject, nil
}

func (p *parser) classElements(typ Type, schema *Object) ([]*Object, error) {
	switch typ {
	case TypeOneOf, TypeAnyOf, TypeAllOf:
		list, _ := schema.Array(string(typ))
		return objects(list, string(typ))
	case TypeMapOf:
		ap, _ := schema.Object("additionalProperties")
		list, _ := ap.Array("oneOf")
		return objects(list, "additionalProperties.oneOf")
	case TypeArray:
		items, ok := schema.Object("items")
		if !ok {
			return nil, nil
		}
		item, err := p.arrayItemType(schema)
		if err != nil {
			return nil, err
		}
		if !item.IsClassSelection() {
			return []*Object{items}, nil
		}
		resolved, leave, err := p.enter(items)
		if err != nil {
			return nil, err
		}
		defer leave()
		return p.classElements(item, resolved)
	}
	return nil, fmt.Errorf("%w: type %s does not have class node children", ErrInvariantViolation, typ)
}

func objects(list []any, where string) ([]*Object, error) {
	out := make([]*Object, 0, len(list))
	for i, v := range list {
		obj, ok := v.(*Object)
		if !ok {
			return nil, &ClassificationError{Fragment: formatValue(v), Reason: fmt.Sprintf("%s[%d] is not an object", where, i)}
		}
		out = append(out, obj)
	}
	return out, nil
}

// enter resolves frag and marks its $ref as being expanded until leave is called.
func (p *parser) enter(frag *Object) (*Object, func(), error) {
	ref, ok := frag.String("$ref")
	if !ok {
		return frag, func() {}, nil
	}
	if p.active[ref] {
		return nil, nil, fmt.Errorf("%w: %s", ErrCircularRef, ref)
	}
	target, err := p.lookup(ref)
	if err != nil {
		return nil, nil, err
	}
	p.active[ref] = true
	return target.Merge(frag), func() { delete(p.active, ref) }, nil
}

// lookup walks a local reference like #/definitions/Base/Concrete through the document.
func (p *parser) lookup(ref string) (*Object, error) {
	segments := strings.Split(ref, "/")
	if segments[0] != "#" && segments[0] != "" {
		return nil, fmt.Errorf("%w: %s: only local references are supported", ErrUnresolvedRef, ref)
	}
	var cur any = p.doc
	for _, seg := range segments[1:] {
		if seg == "" {
			continue
		}
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		switch node := cur.(type) {
		case *Object:
			next, ok := node.Get(seg)
			if !ok {
				return nil, fmt.Errorf("%w: %s: no %q", ErrUnresolvedRef, ref, seg)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("%w: %s: bad index %q", ErrUnresolvedRef, ref, seg)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("%w: %s: cannot descend into %q", ErrUnresolvedRef, ref, seg)
		}
	}
	obj, ok := cur.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: %s: target is not an object", ErrUnresolvedRef, ref)
	}
	return obj, nil
}

// baseClassOf returns the second-to-last segment of ref, or "" for the Others section.
func baseClassOf(ref string) string {
	segments := strings.Split(ref, "/")
	if len(segments) < 2 {
		return ""
	}
	base := segments[len(segments)-2]
	if base == othersSection || base == "#" {
		return ""
	}
	return base
}

// inferDetails names what a union or array of classes holds: the class itself
// when there is one, the shared base class when all agree, otherwise nothing.
func inferDetails(children []*Node) string {
	if len(children) == 0 {
		return ""
	}
	classes := make([]Class, 0, len(children))
	for _, c := range children {
		cls, ok := c.Class()
		if !ok {
			return ""
		}
		classes = append(classes, cls)
	}
	if len(classes) == 1 {
		return classes[0].Name
	}
	base := classes[0].BaseClass
	for _, c := range classes[1:] {
		if c.BaseClass != base {
			return ""
		}
	}
	return base
}
