package render

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"mwrender/dom"
	"mwrender/sink"
)

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'o': 'ₒ', 'x': 'ₓ', 'h': 'ₕ',
	'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ', 'p': 'ₚ',
	's': 'ₛ', 't': 'ₜ',
	' ': ' ', '\u00a0': '\u00a0',
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'i': 'ⁱ', 'n': 'ⁿ',
	' ': ' ', '\u00a0': '\u00a0',
}

// script converts s using one of the maps above. It fails when s is empty or
// contains anything the map does not know.
func script(s string, m map[rune]rune) (string, bool) {
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range s {
		c, ok := m[r]
		if !ok {
			return "", false
		}
		b.WriteRune(c)
	}
	return b.String(), true
}

// Subscript returns Unicode subscript form of s, or false if s cannot be
// represented that way.
func Subscript(s string) (string, bool) { return script(s, subscripts) }

// Superscript returns Unicode superscript form of s, or false if s cannot be
// represented that way.
func Superscript(s string) (string, bool) { return script(s, superscripts) }

// writeScript outputs collected sub or superscript content. Content which
// could not be expressed in plain text is dropped for both notations, so
// outputs stay comparable.
func writeScript(out sink.Sink, content string, m map[rune]rune, command string) {
	converted, ok := script(content, m)
	if !ok {
		return
	}
	if out.Notation() == sink.LaTeXMarkup {
		out.Verbatim(`\` + command + `{` + content + `}`)
		return
	}
	out.Write(converted)
}

func visitSub(w *walker, n dom.Node, sc scope) error {
	content, err := w.collect(n, sc)
	if err != nil {
		return err
	}
	writeScript(sc.out, content, subscripts, "textsubscript")
	return nil
}

func visitSup(w *walker, n dom.Node, sc scope) error {
	content, err := w.collect(n, sc)
	if err != nil {
		return err
	}
	writeScript(sc.out, content, superscripts, "textsuperscript")
	return nil
}

// visitReferenceMark renders citation mark "[1]" as superscript "¹".
func visitReferenceMark(w *walker, n dom.Node, sc scope) error {
	if w.opts.NoRefs {
		return nil
	}
	content, err := w.collect(n, sc)
	if err != nil {
		return err
	}
	content = strings.NewReplacer("[", "", "]", "").Replace(content)
	writeScript(sc.out, content, superscripts, "textsuperscript")
	return nil
}

// visitReferences renders reference list as numbered indented entries.
func visitReferences(w *walker, n dom.Node, sc scope) error {
	if w.opts.NoRefs {
		return nil
	}
	for i, ref := range dom.ElementChildren(n) {
		sc.out.Indent(sc.out.Escape(TextEscape("[" + strconv.Itoa(i+1) + "]")))
		if id, ok := ref.Attr("id"); ok {
			sc.out.Anchor(id)
		}
		if err := w.visitChildren(ref, sc); err != nil {
			return err
		}
		sc.out.Dedent()
	}
	return nil
}

// Equations which bring their own environment, starred form is forced to
// suppress numbering.
var mathEnvironment = regexp.MustCompile(`^(\s*\\begin\s*\{\s*(?:eqnarray|equation|align|gather|falign|multiline|alignat))\*?(\s*\}[\s\S]*\\end\s*\{[^}*]+)\*?(\}\s*)$`)

// FormatMath wraps TeX source of a formula for output. Second result reports
// formulas which have their own display environment.
func FormatMath(src string, display bool) (string, bool) {
	if m := mathEnvironment.FindStringSubmatch(src); m != nil {
		return m[1] + "*" + m[2] + "*" + m[3], true
	}
	if display {
		return "$$" + src + "$$", false
	}
	return "$" + src + "$", false
}

type mathData struct {
	Attrs struct {
		Display string `json:"display"`
	} `json:"attrs"`
	Body struct {
		Extsrc string `json:"extsrc"`
	} `json:"body"`
}

func visitMathInline(w *walker, n dom.Node, sc scope) error {
	return visitMath(w, n, sc, false)
}

func visitMath(_ *walker, n dom.Node, sc scope, display bool) error {
	raw, ok := n.Attr("data-mw")
	if !ok {
		return errors.New("math element without data-mw attribute")
	}
	var data mathData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fmt.Errorf("unable to decode math data-mw: %w", err)
	}
	display = display || data.Attrs.Display == "block"

	formula, env := FormatMath(data.Body.Extsrc, display)
	if display || env {
		sc.out.LineBreak()
		sc.out.Verbatim(formula)
		sc.out.LineBreak()
		return nil
	}
	sc.out.Verbatim(formula)
	return nil
}

// visitFigure suppresses images, caption is the one found outside of the
// figure for multi-image templates.
func visitFigure(w *walker, n dom.Node, _ scope) error {
	return figure(w, n, nil)
}

func figure(w *walker, n, caption dom.Node) error {
	if ce := w.log.Check(zap.DebugLevel, "Figure suppressed"); ce != nil {
		fields := []zap.Field{zap.String("typeof", dom.AttrOr(n, "typeof", n.Tag()))}
		if caption != nil {
			fields = append(fields, zap.String("caption", sink.CollapseSpace(dom.TextContent(caption))))
		}
		ce.Write(fields...)
	}
	return nil
}

// visitMultipleImage handles side by side image templates. Template content
// is a sibling table sharing the same "about" value, with a row of images
// followed by a row of captions.
func visitMultipleImage(w *walker, n dom.Node, _ scope) error {
	about := dom.AttrOr(n, "about", "")
	w.templates[about] = struct{}{}

	parent := n.Parent()
	if parent == nil {
		return nil
	}
	for _, table := range dom.FindAll(parent, dom.All(dom.IsTag("table"), dom.HasAttr("about", about))) {
		var images, captions []dom.Node
		for _, tr := range dom.FindAll(table, dom.IsTag("tr")) {
			images = append(images, cellChildren(tr, dom.HasAttr("typeof", "mw:Image"))...)
			if next := tr.NextElementSibling(); next != nil && next.Tag() == "tr" {
				captions = append(captions, cellChildren(next, dom.HasAttr("class", "thumbcaption"))...)
			}
		}
		for i, img := range images {
			var caption dom.Node
			if i < len(captions) {
				caption = captions[i]
			}
			if err := figure(w, img, caption); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellChildren selects "tr > td > *" elements matching pred.
func cellChildren(tr dom.Node, pred dom.Predicate) []dom.Node {
	var res []dom.Node
	for _, td := range dom.ElementChildren(tr) {
		if td.Tag() != "td" {
			continue
		}
		for _, c := range dom.ElementChildren(td) {
			if pred(c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// titleFromHref extracts article title from its canonical link.
func titleFromHref(href string) string {
	if i := strings.LastIndexByte(href, '/'); i >= 0 {
		href = href[i+1:]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	return strings.ReplaceAll(href, "_", " ")
}
