package convert

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"slices"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mwrender/bundle"
	"mwrender/config"
	"mwrender/dom"
	"mwrender/lang"
	"mwrender/render"
	"mwrender/sink"
)

//go:embed main.tex.tmpl
var mainTemplate string

// DocumentSource gives access to collection articles and information about
// wikis they came from.
type DocumentSource interface {
	Document(ctx context.Context, wiki int, revision bundle.Revision) (dom.Node, error)
	SiteInfo(ctx context.Context, wiki int) (bundle.SiteInfo, error)
}

// entry is a single line of LaTeX skeleton body.
type entry struct {
	Columns string
	Chapter string
	Input   string
}

type generator struct {
	mb    *bundle.Metabook
	src   DocumentSource
	out   Output
	cfg   *config.RenderConfig
	rpt   *config.Report
	langs *lang.Registry
	log   *zap.Logger

	lang    string
	dir     string
	used    map[string]struct{}
	index   int
	total   int
	chapter string
	columns int
	entries []entry
}

// Generate renders all collection articles in order into out using
// notation requested by configuration. Any article which could not be
// loaded or rendered stops processing.
func Generate(ctx context.Context, mb *bundle.Metabook, src DocumentSource, out Output, cfg *config.RenderConfig, rpt *config.Report, log *zap.Logger) error {
	g := &generator{
		mb:      mb,
		src:     src,
		out:     out,
		cfg:     cfg,
		rpt:     rpt,
		langs:   lang.New(nil),
		log:     log,
		lang:    cfg.Language,
		dir:     cfg.Directionality.String(),
		used:    make(map[string]struct{}),
		total:   mb.CountArticles(),
		columns: 1,
	}
	if g.lang == "" {
		g.lang = mb.Lang
	}
	if g.lang == "" {
		g.lang = "en"
	}
	if g.dir == "" {
		g.dir = g.langs.Lookup(g.lang).Dir
	}
	g.used[g.lang] = struct{}{}

	log.Debug("Collection", zap.String("id", mb.ID), zap.String("lang", g.lang), zap.String("dir", g.dir),
		zap.Int("articles", g.total), zap.Bool("chapters", mb.HasChapters()))

	switch cfg.Format {
	case config.OutputFmtText:
		return g.generateText(ctx)
	case config.OutputFmtLatex:
		return g.generateLaTeX(ctx)
	}
	return fmt.Errorf("unsupported output format %s", cfg.Format)
}

func (g *generator) options() render.Options {
	return render.Options{
		Lang:        g.lang,
		Dir:         g.dir,
		HasChapters: g.mb.HasChapters(),
		SingleItem:  g.mb.SingleItem(),
		NoRefs:      g.cfg.NoRefs,
		ParIndent:   g.cfg.ParIndent,
	}
}

func (g *generator) generateText(ctx context.Context) (err error) {
	f, err := g.out.Create(g.cfg.OutputName + config.OutputFmtText.Ext())
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	out := sink.NewText(f, sink.TextOptions{
		Columns:  g.cfg.Columns,
		TabWidth: g.cfg.TabWidth,
		NoWrap:   g.cfg.NoWrap,
	})

	if title := metaText(g.mb.DisplayTitle()); title != "" {
		out.Title(title, metaText(g.mb.Subtitle))
	}
	if summary := metaText(g.mb.Summary); summary != "" {
		out.Summary(summary)
	}

	err = g.walk(ctx, g.mb.Items,
		func(title string) error {
			out.Heading(0, metaText(title))
			return nil
		},
		func(it *bundle.Item) error {
			return g.renderArticle(ctx, out, it)
		})
	if err != nil {
		return err
	}
	return out.Flush()
}

func (g *generator) generateLaTeX(ctx context.Context) error {
	err := g.walk(ctx, g.mb.Items,
		func(title string) error {
			g.entries = append(g.entries, entry{Chapter: sink.EscapeLaTeX(metaText(title))})
			return nil
		},
		func(it *bundle.Item) error {
			return g.writeArticle(ctx, it)
		})
	if err != nil {
		return err
	}
	return g.writeMain()
}

// walk visits collection items in document order.
func (g *generator) walk(ctx context.Context, items []bundle.Item, chapter func(string) error, article func(*bundle.Item) error) error {
	for i := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		it := &items[i]
		switch it.Type {
		case bundle.ItemChapter:
			g.chapter = it.Title
			if err := chapter(it.Title); err != nil {
				return err
			}
			if err := g.walk(ctx, it.Items, chapter, article); err != nil {
				return err
			}
		case bundle.ItemArticle, "":
			if err := article(it); err != nil {
				return err
			}
		default:
			g.log.Warn("Skipping unknown collection item", zap.String("type", it.Type), zap.String("title", it.Title))
		}
	}
	return nil
}

func (g *generator) writeArticle(ctx context.Context, it *bundle.Item) (err error) {
	name, err := articleFileName(g.cfg.ArticleNameTemplate, Values{
		Index:    g.index + 1,
		Title:    it.Title,
		Chapter:  g.chapter,
		Wiki:     it.Wiki,
		Revision: string(it.Revision),
	}, config.OutputFmtLatex)
	if err != nil {
		return fmt.Errorf("unable to build article file name: %w", err)
	}

	f, err := g.out.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if it.Columns > 0 && it.Columns != g.columns {
		e := entry{Columns: "onecolumn"}
		if it.Columns > 1 {
			e.Columns = "twocolumn"
		}
		g.columns = it.Columns
		g.entries = append(g.entries, e)
	}
	g.entries = append(g.entries, entry{Input: filepath.ToSlash(name)})

	out := sink.NewLaTeX(f)
	if err := g.renderArticle(ctx, out, it); err != nil {
		return err
	}
	return out.Flush()
}

// renderArticle renders single article into out. Panics raised while
// rendering are converted to errors.
func (g *generator) renderArticle(ctx context.Context, out sink.Sink, it *bundle.Item) (rerr error) {
	g.index++
	log := g.log.With(zap.Int("index", g.index), zap.String("title", it.Title))

	log.Info("Processing article", zap.Int("total", g.total))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Rendering ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			if e, ok := r.(error); ok {
				rerr = fmt.Errorf("rendering panic: %w", e)
			} else {
				rerr = fmt.Errorf("rendering panic: %v", r)
			}
		} else if rerr == nil {
			log.Debug("Article completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	doc, err := g.src.Document(ctx, it.Wiki, it.Revision)
	if err != nil {
		return fmt.Errorf("unable to load article '%s': %w", it.Title, err)
	}
	si, err := g.src.SiteInfo(ctx, it.Wiki)
	if err != nil {
		return fmt.Errorf("unable to load site information for article '%s': %w", it.Title, err)
	}

	g.rpt.StoreData(fmt.Sprintf("documents/%s-%03d.txt", g.mb.ID, g.index), []byte(dom.Dump(doc)))

	if base := dom.Find(doc, dom.IsTag("base")); base != nil {
		log.Debug("Article base", zap.String("href", dom.AttrOr(base, "href", "")))
	}

	articleLang := si.General.Lang
	if articleLang == "" {
		articleLang = g.lang
	}

	r := render.New(out, g.langs, g.options(), log.Named("render"))

	heading := dom.NewElement("h1", nil,
		dom.NewElement("span", []dom.Attr{{Name: "lang", Value: articleLang}}, dom.NewText(it.Title)))
	res, err := r.Render(ctx, heading)
	if err != nil {
		return fmt.Errorf("unable to render article '%s': %w", it.Title, err)
	}
	g.merge(res.Languages)

	body := dom.Find(doc, dom.IsTag("body"))
	if body == nil {
		return errors.New("article document has no body")
	}
	if res, err = r.RenderAs(ctx, body, articleLang); err != nil {
		return fmt.Errorf("unable to render article '%s': %w", it.Title, err)
	}
	g.merge(res.Languages)

	out.ParagraphBreak()
	return out.Flush()
}

func (g *generator) merge(langs []string) {
	for _, l := range langs {
		g.used[l] = struct{}{}
	}
}

type mainValues struct {
	Class          string
	MainLanguage   string
	OtherLanguages []string
	ID             string
	Title          string
	Subtitle       string
	Summary        string
	Entries        []entry
}

// writeMain produces LaTeX skeleton including all article files.
func (g *generator) writeMain() (err error) {
	tmpl, err := template.New("main").Delims("<<", ">>").Funcs(sprig.FuncMap()).Parse(mainTemplate)
	if err != nil {
		return fmt.Errorf("unable to parse LaTeX skeleton: %w", err)
	}

	mainLang := g.langs.Lookup(g.lang).Name
	var others []string
	for l := range g.used {
		if name := g.langs.Lookup(l).Name; name != mainLang && !slices.Contains(others, name) {
			others = append(others, name)
		}
	}
	slices.Sort(others)

	values := mainValues{
		Class:          "report",
		MainLanguage:   mainLang,
		OtherLanguages: others,
		ID:             g.mb.ID,
		Title:          sink.EscapeLaTeX(metaText(g.mb.DisplayTitle())),
		Subtitle:       sink.EscapeLaTeX(metaText(g.mb.Subtitle)),
		Summary:        sink.EscapeLaTeX(metaText(g.mb.Summary)),
		Entries:        g.entries,
	}
	if g.mb.SingleItem() {
		values.Class = "article"
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return fmt.Errorf("unable to produce LaTeX skeleton: %w", err)
	}

	f, err := g.out.Create(g.cfg.OutputName + config.OutputFmtLatex.Ext())
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	_, err = f.Write(buf.Bytes())
	return err
}

// metaText normalizes collection metadata strings.
func metaText(s string) string {
	return sink.CollapseSpace(render.TextEscape(s))
}
