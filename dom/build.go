package dom

// Attr is a single attribute of synthesized element.
type Attr struct {
	Name, Value string
}

type synthNode struct {
	typ      NodeType
	tag      string
	data     string
	attrs    []Attr
	children []*synthNode
	parent   *synthNode
	index    int
}

// NewElement returns new detached element with given attributes and
// children. Children must be nodes created by NewElement or NewText.
func NewElement(tag string, attrs []Attr, children ...Node) Node {
	n := &synthNode{typ: ElementNode, tag: tag, attrs: attrs}
	for _, c := range children {
		s, ok := c.(*synthNode)
		if !ok {
			panic("dom: only synthesized nodes could be used as children")
		}
		s.parent, s.index = n, len(n.children)
		n.children = append(n.children, s)
	}
	return n
}

// NewText returns new detached text node.
func NewText(text string) Node {
	return &synthNode{typ: TextNode, data: text}
}

func (s *synthNode) Type() NodeType { return s.typ }
func (s *synthNode) Tag() string    { return s.tag }
func (s *synthNode) Data() string   { return s.data }

func (s *synthNode) Attr(name string) (string, bool) {
	for _, a := range s.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (s *synthNode) Children() []Node {
	res := make([]Node, 0, len(s.children))
	for _, c := range s.children {
		res = append(res, c)
	}
	return res
}

func (s *synthNode) FirstElementChild() Node {
	for _, c := range s.children {
		if c.typ == ElementNode {
			return c
		}
	}
	return nil
}

func (s *synthNode) NextElementSibling() Node {
	if s.parent == nil {
		return nil
	}
	for _, c := range s.parent.children[s.index+1:] {
		if c.typ == ElementNode {
			return c
		}
	}
	return nil
}

func (s *synthNode) Parent() Node {
	if s.parent == nil {
		return nil
	}
	return s.parent
}
