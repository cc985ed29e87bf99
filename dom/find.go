package dom

import (
	"slices"
	"strings"

	"mwrender/utils/debug"
)

// Predicate selects elements.
type Predicate func(Node) bool

// Find returns first element in document order under root (root included)
// matching pred, or nil.
func Find(root Node, pred Predicate) Node {
	if root == nil {
		return nil
	}
	if root.Type() == ElementNode && pred(root) {
		return root
	}
	for _, c := range root.Children() {
		if found := Find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all elements under root (root included) matching pred in
// document order.
func FindAll(root Node, pred Predicate) []Node {
	var res []Node
	var walk func(Node)
	walk = func(n Node) {
		if n.Type() == ElementNode && pred(n) {
			res = append(res, n)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return res
}

// IsTag matches elements by tag name.
func IsTag(tag string) Predicate {
	return func(n Node) bool { return n.Tag() == tag }
}

// HasAttr matches elements having attribute name with value val.
func HasAttr(name, val string) Predicate {
	return func(n Node) bool {
		v, ok := n.Attr(name)
		return ok && v == val
	}
}

// HasClass matches elements which class list contains cls.
func HasClass(cls string) Predicate {
	return func(n Node) bool {
		return slices.Contains(Classes(n), cls)
	}
}

// All combines predicates, all of them must match.
func All(preds ...Predicate) Predicate {
	return func(n Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// Classes returns class list of the element.
func Classes(n Node) []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// dumpAttrs lists attributes worth seeing in the dump.
var dumpAttrs = []string{"id", "class", "lang", "dir", "typeof", "rel", "about", "href", "style"}

// Dump returns indented representation of the tree for debugging.
func Dump(root Node) string {
	tw := debug.NewTreeWriter()
	var walk func(Node, int)
	walk = func(n Node, depth int) {
		switch n.Type() {
		case DocumentNode:
			tw.Line(depth, "#document")
		case ElementNode:
			attrs := make(map[string]string)
			for _, a := range dumpAttrs {
				if v, ok := n.Attr(a); ok {
					attrs[a] = v
				}
			}
			tw.Element(depth, n.Tag(), attrs)
		case TextNode, CDATANode:
			if strings.TrimSpace(n.Data()) != "" {
				tw.TextBlock(depth, n.Type().String(), n.Data())
			}
			return
		default:
			return
		}
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return tw.String()
}
