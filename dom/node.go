// Package dom provides read-only view of annotated wiki documents. Documents
// come from HTML or XHTML serializations, renderer only sees Node interface.
package dom

// NodeType identifies kind of the node.
type NodeType int

const (
	OtherNode NodeType = iota
	DocumentNode
	ElementNode
	TextNode
	CDATANode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CDATANode:
		return "cdata"
	default:
		return "other"
	}
}

// Node is a single node of the document tree. Navigation methods return
// nil when requested node does not exist.
type Node interface {
	Type() NodeType
	// Tag returns lower-case tag name for elements and empty string otherwise.
	Tag() string
	Attr(name string) (string, bool)
	// Data returns content of text and CDATA nodes.
	Data() string
	Children() []Node
	FirstElementChild() Node
	NextElementSibling() Node
	Parent() Node
}

// AttrOr returns attribute value or def when attribute is absent.
func AttrOr(n Node, name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// ElementChildren returns element children of n in document order.
func ElementChildren(n Node) []Node {
	var res []Node
	for c := n.FirstElementChild(); c != nil; c = c.NextElementSibling() {
		res = append(res, c)
	}
	return res
}

// TextContent returns concatenated content of all text and CDATA
// descendants of n.
func TextContent(n Node) string {
	switch n.Type() {
	case TextNode, CDATANode:
		return n.Data()
	}
	var s string
	for _, c := range n.Children() {
		s += TextContent(c)
	}
	return s
}
