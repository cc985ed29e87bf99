// Package render walks annotated wiki article tree once and drives output
// sink.
package render

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"mwrender/dom"
	"mwrender/lang"
	"mwrender/sink"
)

// Languages resolves language tags found in the document.
type Languages interface {
	Lookup(tag string) lang.Language
}

// Options control rendering of a single article.
type Options struct {
	// Lang is the language of surrounding collection, Dir its
	// directionality. When Dir is empty it is looked up.
	Lang string
	Dir  string
	// HasChapters is set when collection is split into chapters, article
	// headings are shifted one level deeper then.
	HasChapters bool
	// SingleItem is set for collections with single article and no
	// chapters.
	SingleItem bool
	NoRefs     bool
	// ParIndent renders indentation-only description lists flush, as
	// regular paragraphs.
	ParIndent bool
}

// Result describes rendered article.
type Result struct {
	// Title as recorded in the document metadata, could be empty.
	Title string
	// Languages used in the article other than collection language, sorted.
	Languages []string
}

// Renderer converts articles into operations on output sink.
type Renderer struct {
	out   sink.Sink
	langs Languages
	opts  Options
	log   *zap.Logger
}

// New creates renderer writing into out.
func New(out sink.Sink, langs Languages, opts Options, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.Dir == "" {
		opts.Dir = langs.Lookup(opts.Lang).Dir
	}
	return &Renderer{out: out, langs: langs, opts: opts, log: log}
}

// Render renders article tree rooted at root. Unbalanced sink operations
// panic with sink.ErrIndentUnderflow, callers are expected to recover.
func (r *Renderer) Render(ctx context.Context, root dom.Node) (Result, error) {
	return r.RenderAs(ctx, root, "")
}

// RenderAs is like Render, but root element without lang attribute is
// treated as if it had one set to tag.
func (r *Renderer) RenderAs(ctx context.Context, root dom.Node, tag string) (Result, error) {
	w := &walker{
		Renderer:  r,
		ctx:       ctx,
		used:      make(map[string]struct{}),
		templates: make(map[string]struct{}),
	}
	sc := scope{
		lang: r.opts.Lang,
		dir:  r.opts.Dir,
		out:  r.out,
		list: &listInfo{depth: -1},
	}
	if root.Type() == dom.ElementNode && tag != "" && tag != sc.lang {
		if l, _ := root.Attr("lang"); l == "" {
			w.used[tag] = struct{}{}
			sc.lang, sc.dir = tag, r.langs.Lookup(tag).Dir
		}
	}
	if err := w.visit(root, sc); err != nil {
		return Result{}, err
	}

	res := Result{Title: w.title}
	for l := range w.used {
		res.Languages = append(res.Languages, l)
	}
	slices.Sort(res.Languages)
	return res, nil
}

// scope is the inherited rendering environment of a node. It is passed by
// value, so changes made for a subtree never leak to siblings.
type scope struct {
	lang string
	dir  string
	out  sink.Sink
	list *listInfo
}

// listInfo describes innermost list being rendered.
type listInfo struct {
	kind    string
	num     int
	depth   int
	sawTerm bool
	sawDef  bool
}

// walker holds state of a single Render call.
type walker struct {
	*Renderer
	ctx       context.Context
	used      map[string]struct{}
	templates map[string]struct{}
	title     string
}

type handler func(w *walker, n dom.Node, sc scope) error

// Handler tables are keyed by attribute value or tag name. Populated in
// init since handlers refer back to visit.
var typeofHandlers, relHandlers, tagHandlers map[string]handler

func init() {
	typeofHandlers = map[string]handler{
		"mw:Extension/math":       visitMathInline,
		"mw:Extension/references": visitReferences,
		"mw:Image":                visitFigure,
		"mw:Image/Thumb":          visitFigure,
		"mw:Image/Frame":          visitFigure,
		"mw:Image/Frameless":      visitFigure,
		"mw:File":                 visitFigure,
		"mw:File/Thumb":           visitFigure,
		"mw:File/Frame":           visitFigure,
		"mw:File/Frameless":       visitFigure,
	}
	relHandlers = map[string]handler{
		"dc:references":   visitReferenceMark,
		"mw:referencedBy": skip,
	}
	tagHandlers = map[string]handler{
		"body":       visitBody,
		"a":          visitChildren,
		"p":          visitParagraph,
		"br":         visitBreak,
		"center":     visitCenter,
		"div":        visitDiv,
		"sub":        visitSub,
		"sup":        visitSup,
		"h1":         headingHandler(1),
		"h2":         headingHandler(2),
		"h3":         headingHandler(3),
		"h4":         headingHandler(4),
		"h5":         headingHandler(5),
		"h6":         headingHandler(6),
		"ul":         visitList,
		"ol":         visitList,
		"li":         visitItem,
		"dl":         visitDefinitionList,
		"dt":         visitTerm,
		"dd":         visitDefinition,
		"blockquote": visitBlockquote,
		"table":      visitTable,
		"figure":     visitFigure,
		"head":       skip,
		"style":      skip,
		"script":     skip,
		"noscript":   skip,
	}
}

// lookupHandler finds handler for attribute value, trying whole value first
// and then each of space separated tokens.
func lookupHandler(table map[string]handler, val string) handler {
	if h, ok := table[val]; ok {
		return h
	}
	for _, tok := range strings.Fields(val) {
		if h, ok := table[tok]; ok {
			return h
		}
	}
	return nil
}

func (w *walker) visit(n dom.Node, sc scope) error {
	switch n.Type() {
	case dom.ElementNode:
		if IsHidden(n) {
			return nil
		}
		return w.visitElement(n, sc)
	case dom.TextNode, dom.CDATANode:
		if text := TextEscape(n.Data()); text != "" {
			sc.out.Write(text)
		}
	case dom.DocumentNode:
		return w.visitChildren(n, sc)
	}
	return nil
}

func (w *walker) visitElement(n dom.Node, sc scope) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	if l, _ := n.Attr("lang"); l != "" && l != sc.lang {
		w.used[l] = struct{}{}
		sc.lang, sc.dir = l, w.langs.Lookup(l).Dir
		return w.visitElement(n, sc)
	}

	if d, _ := n.Attr("dir"); d != "" {
		d = strings.ToLower(d)
		if d != "auto" && d != sc.dir {
			w.log.Warn("Using non-standard directionality",
				zap.String("lang", sc.lang), zap.String("from", sc.dir), zap.String("to", d))
			sc.dir = d
			return w.visitElement(n, sc)
		}
	}

	if t, ok := n.Attr("typeof"); ok {
		if h := lookupHandler(typeofHandlers, t); h != nil {
			return h(w, n, sc)
		}
	}
	if rel, ok := n.Attr("rel"); ok {
		if h := lookupHandler(relHandlers, rel); h != nil {
			return h(w, n, sc)
		}
	}
	if h, ok := tagHandlers[n.Tag()]; ok {
		return h(w, n, sc)
	}
	return w.visitChildren(n, sc)
}

func (w *walker) visitChildren(n dom.Node, sc scope) error {
	for _, c := range n.Children() {
		if err := w.visit(c, sc); err != nil {
			return err
		}
	}
	return nil
}

// collect renders children of n into a string in sink notation instead of
// sending them to the sink. List state does not cross the boundary.
func (w *walker) collect(n dom.Node, sc scope) (string, error) {
	rec := sink.NewInline(sc.out)
	sc.out = rec
	sc.list = &listInfo{depth: sc.list.depth}
	if err := w.visitChildren(n, sc); err != nil {
		return "", err
	}
	return rec.String(), nil
}

func visitChildren(w *walker, n dom.Node, sc scope) error {
	return w.visitChildren(n, sc)
}

func skip(*walker, dom.Node, scope) error {
	return nil
}
