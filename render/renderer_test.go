package render

import (
	"bytes"
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"mwrender/dom"
	"mwrender/lang"
	"mwrender/sink"
)

func renderHTML(t *testing.T, out sink.Sink, opts Options, log *zap.Logger, src string) (Result, error) {
	t.Helper()

	root, err := dom.ParseHTML(strings.NewReader(src), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	res, err := New(out, lang.New(nil), opts, log).Render(context.Background(), root)
	if ferr := out.Flush(); ferr != nil {
		t.Fatalf("Flush() error = %v", ferr)
	}
	return res, err
}

func renderToText(t *testing.T, opts Options, src string) string {
	t.Helper()

	var b bytes.Buffer
	if _, err := renderHTML(t, sink.NewText(&b, sink.TextOptions{}), opts, zaptest.NewLogger(t), src); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func renderToLaTeX(t *testing.T, opts Options, src string) string {
	t.Helper()

	var b bytes.Buffer
	if _, err := renderHTML(t, sink.NewLaTeX(&b), opts, zaptest.NewLogger(t), src); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

const (
	mathX2     = `<span typeof="mw:Extension/math" data-mw='{"name":"math","body":{"extsrc":"x^2"}}'>x2</span>`
	mathSum    = `<span typeof="mw:Extension/math" data-mw='{"name":"math","body":{"extsrc":"a+b"}}'>a+b</span>`
	mathAlign  = `<span typeof="mw:Extension/math" data-mw='{"name":"math","body":{"extsrc":"\\begin{align}a&amp;=b\\end{align}"}}'>a=b</span>`
	mathBlock  = `<span typeof="mw:Extension/math" data-mw='{"name":"math","attrs":{"display":"block"},"body":{"extsrc":"y"}}'>y</span>`
	references = `<p>Fact<sup rel="dc:references" typeof="mw:Extension/ref"><a href="#cite_note-1">[1]</a></sup>.</p>` +
		`<ol class="references" typeof="mw:Extension/references">` +
		`<li id="cite_note-1"><a rel="mw:referencedBy" href="#cite_ref-1">↑</a> <span>Source</span></li>` +
		`</ol>`
)

func TestRender_Text(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		src  string
		want string
	}{
		{
			name: "paragraphs",
			src:  `<p>Hello   world</p><p>Second</p>`,
			want: "Hello world\n\nSecond\n\n",
		},
		{
			name: "smart quotes",
			src:  `<p>“Hi” ‘there’</p>`,
			want: "\"Hi\" 'there'\n\n",
		},
		{
			name: "hidden content",
			src: `<p>a<span class="noprint">x</span><span style="color:red; DISPLAY : none">y</span>` +
				`<span class="navbox">z</span><span style="display:block">b</span></p>`,
			want: "ab\n\n",
		},
		{
			name: "anchor and line break",
			src:  `<p>one <a href="./Two">link</a><br>two</p>`,
			want: "one link\ntwo\n\n",
		},
		{
			name: "div and center",
			src:  `<p>a</p><div>b</div>c<center>d</center>`,
			want: "a\n\nb\nc\nd\n",
		},
		{
			name: "bullet list",
			src:  `<ul><li>one</li><li>two<ul><li>inner<ul><li>deep<ul><li>again</li></ul></li></ul></li></ul></li></ul>`,
			want: "* one\n* two\n  - inner\n    + deep\n      * again\n",
		},
		{
			name: "ordered list",
			src:  `<ol><li>a</li><li>b<ol><li>c</li></ol></li></ol>`,
			want: "1. a\n2. b\n  1) c\n",
		},
		{
			name: "ordered list start",
			src:  `<ol start="3"><li>x</li><li>y</li></ol>`,
			want: "3. x\n4. y\n",
		},
		{
			name: "empty list",
			src:  `<ul></ul><p>x</p>`,
			want: "x\n\n",
		},
		{
			name: "definition list",
			src:  `<dl><dt>Term</dt><dd>Def one</dd><dd>Def two</dd></dl><p>After</p>`,
			want: "Term Def one\n  Def two\n\nAfter\n\n",
		},
		{
			name: "two terms",
			src:  `<dl><dt>A</dt><dd>first</dd><dt>B</dt><dd>second</dd></dl>`,
			want: "A first\nB second\n",
		},
		{
			name: "indentation only list",
			src:  `<dl><dd>Quoted text</dd></dl>`,
			want: "  Quoted text\n",
		},
		{
			name: "indentation only list flush",
			opts: Options{ParIndent: true},
			src:  `<dl><dd>Quoted text</dd><dd>More</dd></dl>`,
			want: "Quoted text\n\nMore\n\n",
		},
		{
			name: "display math list",
			src:  `<p>Where</p><dl><dd>` + mathX2 + `</dd></dl>`,
			want: "Where\n\n$$x^2$$\n",
		},
		{
			name: "inline math",
			src:  `<p>See ` + mathSum + ` here</p>`,
			want: "See $a+b$ here\n\n",
		},
		{
			name: "math environment",
			src:  `<p>See ` + mathAlign + ` here</p>`,
			want: "See\n\\begin{align*}a&=b\\end{align*}\nhere\n\n",
		},
		{
			name: "block math attribute",
			src:  `<p>See ` + mathBlock + `</p>`,
			want: "See\n$$y$$\n\n",
		},
		{
			name: "sub and sup",
			src:  `<p>H<sub>2</sub>O x<sup>2</sup> y<sup>abc</sup></p>`,
			want: "H₂O x² y\n\n",
		},
		{
			name: "references",
			src:  references,
			want: "Fact¹.\n\n[1] Source\n",
		},
		{
			name: "references skipped",
			opts: Options{NoRefs: true},
			src:  references,
			want: "Fact.\n\n",
		},
		{
			name: "headings",
			src:  `<h1>Title</h1><h2>Section</h2><p>x</p>`,
			want: "Title\n\nSection\n\nx\n\n",
		},
		{
			name: "single item drops top heading",
			opts: Options{SingleItem: true},
			src:  `<h1>Title</h1><h2>Section</h2><p>x</p>`,
			want: "Section\n\nx\n\n",
		},
		{
			name: "heading markup is collected",
			src:  `<h2>E = mc<sup>2</sup></h2>`,
			want: "E = mc²\n\n",
		},
		{
			name: "blockquote",
			src:  `<blockquote><p>Quote</p></blockquote>`,
			want: "  Quote\n\n",
		},
		{
			name: "tables and figures",
			src: `<p>a</p><table><tr><td>cell</td></tr></table>` +
				`<figure typeof="mw:Image/Thumb"><figcaption>cap</figcaption></figure>` +
				`<span typeof="mw:Image"><img src="x.png"></span><p>b</p>`,
			want: "a\n\nb\n\n",
		},
		{
			name: "multiple image template",
			src: `<div typeof="mw:Transclusion" about="#mwt1" class="navbox" ` +
				`data-mw='{"parts":[{"template":{"target":{"href":"./Template:Double_image"}}}]}'></div>` +
				`<table about="#mwt1"><tr><td><span typeof="mw:Image">img</span></td></tr>` +
				`<tr><td><div class="thumbcaption">cap</div></td></tr></table><p>after</p>`,
			want: "after\n\n",
		},
		{
			name: "styles and scripts",
			src:  `<style>.a{color:red}</style><p>x</p><script>alert(1)</script>`,
			want: "x\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderToText(t, tt.opts, tt.src); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_LaTeX(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		src  string
		want string
	}{
		{
			name: "heading paragraph and list",
			opts: Options{HasChapters: true},
			src:  `<h2>Section</h2><p>50% a_b</p><ul><li>x</li></ul>`,
			want: "\\subsection{Section}\n\n50\\% a\\_b\n\n\\begin{mwindent}{*}\nx\n\\end{mwindent}\n",
		},
		{
			name: "chapterless heading levels",
			src:  `<h1>T</h1><h2>S</h2>`,
			want: "\\chapter{T}\n\n\\section{S}\n\n",
		},
		{
			name: "sub and sup",
			src:  `<p>H<sub>2</sub>O x<sup>n</sup> y<sup>bad</sup></p>`,
			want: "H\\textsubscript{2}O x\\textsuperscript{n} y\n\n",
		},
		{
			name: "inline math",
			src:  `<p>See ` + mathSum + ` here</p>`,
			want: "See $a+b$ here\n\n",
		},
		{
			name: "references",
			src:  `<ol typeof="mw:Extension/references"><li id="cite_note-1">Source</li></ol>`,
			want: "\\begin{mwindent}{[1]}\n\\hypertarget{cite-note-1}{}Source\n\\end{mwindent}\n",
		},
		{
			name: "line break inside paragraph",
			src:  `<p>one<br>two<br></p>`,
			want: "one\\\\{}\ntwo\n\n",
		},
		{
			name: "line break before bracketed text",
			src:  `<p>a<br>[b] c</p>`,
			want: "a\\\\{}\n[b] c\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderToLaTeX(t, tt.opts, tt.src); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_BadMathData(t *testing.T) {
	var b bytes.Buffer
	_, err := renderHTML(t, sink.NewText(&b, sink.TextOptions{}), Options{}, zaptest.NewLogger(t),
		`<p><span typeof="mw:Extension/math" data-mw='{"body":'>x</span></p>`)
	if err == nil {
		t.Fatal("Render() expected error for malformed data-mw")
	}
	if !strings.Contains(err.Error(), "math") {
		t.Errorf("error = %v, want mention of math", err)
	}
}

func TestRender_Canceled(t *testing.T) {
	root, err := dom.ParseHTML(strings.NewReader(`<p>x</p>`), "")
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b bytes.Buffer
	_, err = New(sink.NewText(&b, sink.TextOptions{}), lang.New(nil), Options{}, zaptest.NewLogger(t)).Render(ctx, root)
	if err != context.Canceled {
		t.Errorf("Render() error = %v, want %v", err, context.Canceled)
	}
}

func TestRender_LanguagesAndDirection(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	var b bytes.Buffer
	res, err := renderHTML(t, sink.NewText(&b, sink.TextOptions{}), Options{Lang: "en"}, zap.New(core),
		`<html><head><link rel="dc:isVersionOf" href="//en.wikipedia.org/wiki/Foo_bar%C3%A9"></head><body>`+
			`<p lang="ar">مرحبا <span dir="LTR">x</span> <span dir="rtl">y</span></p>`+
			`<p lang="de" dir="auto">z</p><p lang="en">w</p>`+
			`</body></html>`)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if want := []string{"ar", "de"}; !slices.Equal(res.Languages, want) {
		t.Errorf("Languages = %v, want %v", res.Languages, want)
	}
	if res.Title != "Foo baré" {
		t.Errorf("Title = %q, want %q", res.Title, "Foo baré")
	}

	warnings := logs.FilterMessage("Using non-standard directionality").All()
	if len(warnings) != 1 {
		t.Fatalf("got %d directionality warnings, want 1", len(warnings))
	}
	fields := warnings[0].ContextMap()
	if fields["lang"] != "ar" || fields["from"] != lang.RTL || fields["to"] != lang.LTR {
		t.Errorf("warning fields = %v", fields)
	}
}

func TestRender_As(t *testing.T) {
	tests := []struct {
		name string
		src  string
		tag  string
		want []string
	}{
		{name: "defaults body language", src: `<p>x</p>`, tag: "fr", want: []string{"fr"}},
		{name: "same as collection", src: `<p>x</p>`, tag: "en", want: nil},
		{name: "own language wins", src: `<p lang="de">x</p>`, tag: "fr", want: []string{"de"}},
		{name: "no default", src: `<p>x</p>`, tag: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			root := dom.Find(mustParse(t, tt.src), dom.IsTag("p"))
			res, err := New(sink.NewText(&b, sink.TextOptions{}), lang.New(nil), Options{Lang: "en"}, zaptest.NewLogger(t)).
				RenderAs(context.Background(), root, tt.tag)
			if err != nil {
				t.Fatalf("RenderAs() error = %v", err)
			}
			if !slices.Equal(res.Languages, tt.want) {
				t.Errorf("Languages = %v, want %v", res.Languages, tt.want)
			}
		})
	}
}

func mustParse(t *testing.T, src string) dom.Node {
	t.Helper()
	root, err := dom.ParseHTML(strings.NewReader(src), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	return root
}

// randomTree builds arbitrarily nested block structure which exercises all
// handlers opening indentation.
func randomTree(rnd *rand.Rand, depth int) dom.Node {
	tags := []string{"ul", "ol", "li", "dl", "dt", "dd", "blockquote", "p", "div", "sup", "h3"}
	n := rnd.IntN(4)
	children := make([]dom.Node, 0, n)
	for range n {
		if depth == 0 || rnd.IntN(3) == 0 {
			children = append(children, dom.NewText("word "))
			continue
		}
		children = append(children, randomTree(rnd, depth-1))
	}
	return dom.NewElement(tags[rnd.IntN(len(tags))], nil, children...)
}

func TestRender_BalancedIndentation(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	for i := range 300 {
		tree := dom.NewElement("body", nil, randomTree(rnd, 6), randomTree(rnd, 6))

		var tb, lb bytes.Buffer
		text, latex := sink.NewText(&tb, sink.TextOptions{Columns: 30}), sink.NewLaTeX(&lb)
		for _, out := range []sink.Sink{text, latex} {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("iteration %d, %s: panic %v\n%s", i, out.Notation(), r, dom.Dump(tree))
					}
				}()
				if _, err := New(out, lang.New(nil), Options{}, zap.NewNop()).Render(context.Background(), tree); err != nil {
					t.Fatalf("iteration %d: Render() error = %v", i, err)
				}
			}()
		}
		if text.Depth() != 0 || latex.Depth() != 0 {
			t.Fatalf("iteration %d: unbalanced indentation text=%d latex=%d\n%s", i, text.Depth(), latex.Depth(), dom.Dump(tree))
		}
		if err := text.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		if strings.HasPrefix(tb.String(), "\n") || strings.Contains(tb.String(), "\n\n\n") {
			t.Fatalf("iteration %d: stacked breaks in %q", i, tb.String())
		}
	}
}
