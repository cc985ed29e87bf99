package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ParseHTML parses HTML document. contentType is used to detect input
// encoding, it could be empty, in which case encoding is sniffed from the
// content itself.
func ParseHTML(r io.Reader, contentType string) (Node, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	doc, err := html.Parse(cr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}
	return &htmlNode{n: doc}, nil
}

type htmlNode struct {
	n *html.Node
}

func wrapHTML(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return &htmlNode{n: n}
}

func (h *htmlNode) Type() NodeType {
	switch h.n.Type {
	case html.DocumentNode:
		return DocumentNode
	case html.ElementNode:
		return ElementNode
	case html.TextNode:
		return TextNode
	default:
		return OtherNode
	}
}

func (h *htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(h.n.Data)
}

func (h *htmlNode) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (h *htmlNode) Data() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

func (h *htmlNode) Children() []Node {
	var res []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		res = append(res, &htmlNode{n: c})
	}
	return res
}

func (h *htmlNode) FirstElementChild() Node {
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return &htmlNode{n: c}
		}
	}
	return nil
}

func (h *htmlNode) NextElementSibling() Node {
	for c := h.n.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return &htmlNode{n: c}
		}
	}
	return nil
}

func (h *htmlNode) Parent() Node {
	return wrapHTML(h.n.Parent)
}
