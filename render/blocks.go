package render

import (
	"strconv"

	"go.uber.org/zap"

	"mwrender/dom"
)

const (
	bulletMarkers  = "*-+"
	numberMarkers  = ".)]"
	mathTypeof     = "mw:Extension/math"
	kindQuotation  = "blockquote"
	kindParagraphs = "paragraphs"
)

func visitBody(w *walker, n dom.Node, sc scope) error {
	if link := dom.Find(documentRoot(n), dom.All(dom.IsTag("link"), dom.HasAttr("rel", "dc:isVersionOf"))); link != nil {
		if href, ok := link.Attr("href"); ok {
			w.title = titleFromHref(href)
			w.log.Debug("Rendering article", zap.String("title", w.title))
		}
	}
	return w.visitChildren(n, sc)
}

func documentRoot(n dom.Node) dom.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		n = p
	}
	return n
}

func visitParagraph(w *walker, n dom.Node, sc scope) error {
	sc.out.ParagraphBreak()
	if err := w.visitChildren(n, sc); err != nil {
		return err
	}
	sc.out.ParagraphBreak()
	return nil
}

func visitBreak(_ *walker, _ dom.Node, sc scope) error {
	sc.out.LineBreak()
	return nil
}

func visitCenter(w *walker, n dom.Node, sc scope) error {
	sc.out.LineBreak()
	if err := w.visitChildren(n, sc); err != nil {
		return err
	}
	sc.out.LineBreak()
	return nil
}

func visitDiv(w *walker, n dom.Node, sc scope) error {
	if isMultipleImageTemplate(n) {
		return visitMultipleImage(w, n, sc)
	}
	return visitCenter(w, n, sc)
}

func visitBlockquote(w *walker, n dom.Node, sc scope) error {
	sc.out.Indent("")
	if err := w.visitChildren(n, sc); err != nil {
		return err
	}
	sc.out.Dedent()
	return nil
}

// headingHandler handles h1-h6. h1 is at the level of the article title, so
// without chapters everything moves one level up.
func headingHandler(level int) handler {
	return func(w *walker, n dom.Node, sc scope) error {
		lvl := level
		if !w.opts.HasChapters {
			lvl--
		}
		if w.opts.SingleItem && lvl == 0 {
			return nil
		}
		text, err := w.collect(n, sc)
		if err != nil {
			return err
		}
		sc.out.Heading(lvl, text)
		return nil
	}
}

func visitList(w *walker, n dom.Node, sc scope) error {
	if n.FirstElementChild() == nil {
		return nil
	}
	info := &listInfo{kind: n.Tag(), depth: sc.list.depth + 1}
	if n.Tag() == "ol" {
		if start, err := strconv.Atoi(dom.AttrOr(n, "start", "1")); err == nil {
			info.num = start - 1
		}
	}
	sc.list = info
	return w.visitChildren(n, sc)
}

// ListMarker returns item label for list of kind ("ul" or "ol") at nesting
// depth, num is the item number for ordered lists.
func ListMarker(kind string, depth, num int) string {
	d := ((depth % 3) + 3) % 3
	if kind == "ol" {
		return strconv.Itoa(num) + numberMarkers[d:d+1]
	}
	return bulletMarkers[d : d+1]
}

func visitItem(w *walker, n dom.Node, sc scope) error {
	if sc.list.kind == "ol" {
		sc.list.num++
	}
	sc.out.Indent(ListMarker(sc.list.kind, sc.list.depth, sc.list.num))
	if err := w.visitChildren(n, sc); err != nil {
		return err
	}
	sc.out.Dedent()
	return nil
}

// visitDefinitionList tells apart three flavours of <dl>: lists of display
// math (wiki ":<math>" idiom), indentation-only lists (wiki ":" without
// terms) and real term/definition lists.
func visitDefinitionList(w *walker, n dom.Node, sc scope) error {
	first := n.FirstElementChild()
	if first == nil {
		return nil
	}
	sawTerm, allMath := false, true
	for c := first; c != nil && !sawTerm; c = c.NextElementSibling() {
		sawTerm = c.Tag() == "dt"
		m := c.FirstElementChild()
		if m == nil || m.NextElementSibling() != nil || dom.AttrOr(m, "typeof", "") != mathTypeof {
			allMath = false
		}
	}
	if allMath && !sawTerm {
		for c := first; c != nil; c = c.NextElementSibling() {
			if err := visitMath(w, c.FirstElementChild(), sc, true); err != nil {
				return err
			}
		}
		return nil
	}

	info := &listInfo{kind: "dl", depth: sc.list.depth + 1}
	if !sawTerm {
		info.kind = kindQuotation
		if w.opts.ParIndent {
			info.kind = kindParagraphs
		}
	}
	sc.list = info
	if err := w.visitChildren(n, sc); err != nil {
		return err
	}
	if info.sawTerm {
		sc.out.Dedent()
	}
	return nil
}

func insideDefinitionList(sc scope) bool {
	switch sc.list.kind {
	case "dl", kindQuotation, kindParagraphs:
		return true
	}
	return false
}

func visitTerm(w *walker, n dom.Node, sc scope) error {
	if !insideDefinitionList(sc) {
		return visitParagraph(w, n, sc)
	}
	if sc.list.sawTerm {
		sc.out.Dedent()
		sc.list.sawTerm = false
	}
	label, err := w.collect(n, sc)
	if err != nil {
		return err
	}
	sc.out.Indent(label)
	sc.list.sawTerm, sc.list.sawDef = true, false
	return nil
}

func visitDefinition(w *walker, n dom.Node, sc scope) error {
	switch {
	case sc.list.kind == kindParagraphs:
		return visitParagraph(w, n, sc)
	case insideDefinitionList(sc):
		if !sc.list.sawTerm {
			sc.out.Indent("")
			sc.list.sawTerm = true
		}
		// definitions following each other start on a new line
		if sc.list.sawDef {
			sc.out.LineBreak()
		}
		sc.list.sawDef = true
		return w.visitChildren(n, sc)
	default:
		return visitBlockquote(w, n, sc)
	}
}

func visitTable(w *walker, n dom.Node, _ scope) error {
	if _, seen := w.templates[dom.AttrOr(n, "about", "")]; !seen {
		w.log.Debug("Table suppressed", zap.String("id", dom.AttrOr(n, "id", "")))
	}
	return nil
}
