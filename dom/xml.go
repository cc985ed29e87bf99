package dom

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ParseXML parses XHTML serialization of the document. Unlike ParseHTML it
// keeps CDATA sections.
func ParseXML(r io.Reader) (Node, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        xml.HTMLEntity,
		PreserveCData: true,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse xhtml: %w", err)
	}
	return &xmlNode{t: &doc.Element, doc: doc}, nil
}

type xmlNode struct {
	t   etree.Token
	doc *etree.Document
}

func (x *xmlNode) wrap(t etree.Token) Node {
	if t == nil {
		return nil
	}
	if e, ok := t.(*etree.Element); ok && e == nil {
		return nil
	}
	return &xmlNode{t: t, doc: x.doc}
}

func (x *xmlNode) Type() NodeType {
	switch t := x.t.(type) {
	case *etree.Element:
		if t == &x.doc.Element {
			return DocumentNode
		}
		return ElementNode
	case *etree.CharData:
		if t.IsCData() {
			return CDATANode
		}
		return TextNode
	default:
		return OtherNode
	}
}

func (x *xmlNode) element() *etree.Element {
	if e, ok := x.t.(*etree.Element); ok && e != &x.doc.Element {
		return e
	}
	return nil
}

func (x *xmlNode) Tag() string {
	if e := x.element(); e != nil {
		return strings.ToLower(e.Tag)
	}
	return ""
}

func (x *xmlNode) Attr(name string) (string, bool) {
	e := x.element()
	if e == nil {
		return "", false
	}
	if a := e.SelectAttr(name); a != nil {
		return a.Value, true
	}
	if name == "lang" {
		if a := e.SelectAttr("xml:lang"); a != nil {
			return a.Value, true
		}
	}
	return "", false
}

func (x *xmlNode) Data() string {
	if cd, ok := x.t.(*etree.CharData); ok {
		return cd.Data
	}
	return ""
}

func (x *xmlNode) Children() []Node {
	e, ok := x.t.(*etree.Element)
	if !ok {
		return nil
	}
	res := make([]Node, 0, len(e.Child))
	for _, c := range e.Child {
		res = append(res, &xmlNode{t: c, doc: x.doc})
	}
	return res
}

func (x *xmlNode) FirstElementChild() Node {
	e, ok := x.t.(*etree.Element)
	if !ok {
		return nil
	}
	for _, c := range e.Child {
		if ce, ok := c.(*etree.Element); ok {
			return x.wrap(ce)
		}
	}
	return nil
}

func (x *xmlNode) NextElementSibling() Node {
	p := x.t.Parent()
	if p == nil {
		return nil
	}
	for _, c := range p.Child[x.t.Index()+1:] {
		if ce, ok := c.(*etree.Element); ok {
			return x.wrap(ce)
		}
	}
	return nil
}

func (x *xmlNode) Parent() Node {
	p := x.t.Parent()
	if p == nil {
		return nil
	}
	return x.wrap(p)
}
