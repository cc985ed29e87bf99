package sink

import (
	"bufio"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	DefaultColumns  = 75
	DefaultTabWidth = 2

	// minimal room left for text when indentation gets deep
	minRoom = 20
)

// TextOptions controls layout of wrapped text.
type TextOptions struct {
	Columns  int
	TabWidth int
	// NoWrap disables word wrapping, each line is written as is with left
	// margin.
	NoWrap bool
}

// frame is a level of indentation. Label, if any, hangs on the first line
// written in the frame.
type frame struct {
	indent int
	hang   bool
	wrap   func(text string, hang bool) string
}

// Text renders plain text wrapped to the requested width.
type Text struct {
	w    *bufio.Writer
	opts TextOptions

	buf   strings.Builder
	cur   frame
	stack []frame

	atLineStart, atParStart bool
	err                     error
}

// NewText returns wrapped text sink writing to w. Zero values in opts are
// replaced with defaults.
func NewText(w io.Writer, opts TextOptions) *Text {
	if opts.Columns <= 0 {
		opts.Columns = DefaultColumns
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	s := &Text{
		w:           bufio.NewWriter(w),
		opts:        opts,
		atLineStart: true,
		atParStart:  true,
	}
	s.cur = frame{indent: 0, wrap: s.makeWrap(0)}
	return s
}

func (s *Text) makeWrap(indent int) func(string, bool) string {
	tab := s.opts.TabWidth

	if s.opts.NoWrap {
		return func(t string, hang bool) string {
			margin := indent
			if hang {
				margin -= tab
			}
			return strings.Repeat(" ", max(margin, 0)) + CollapseSpace(t)
		}
	}

	if indent+minRoom >= s.opts.Columns {
		indent = max(s.opts.Columns-minRoom, 0)
	}
	lim := uint(s.opts.Columns - indent)

	return func(t string, hang bool) string {
		t = CollapseSpace(t)
		if len(t) == 0 {
			return ""
		}
		t = hideNonBreaking.Replace(t)

		first := indent
		var lines []string
		if hang {
			// hanging label gives first line the room of one tab
			first = max(indent-tab, 0)
			head, tail, _ := strings.Cut(wordwrap.WrapString(t, lim+uint(indent-first)), "\n")
			lines = append(lines, head)
			if len(tail) > 0 {
				lines = append(lines, strings.Split(wordwrap.WrapString(strings.ReplaceAll(tail, "\n", " "), lim), "\n")...)
			}
		} else {
			lines = strings.Split(wordwrap.WrapString(t, lim), "\n")
		}
		for i, l := range lines {
			margin := indent
			if i == 0 {
				margin = first
			}
			lines[i] = strings.Repeat(" ", margin) + restoreNonBreaking.Replace(strings.TrimRight(l, " "))
		}
		return strings.Join(lines, "\n")
	}
}

// wordwrap breaks on any unicode space except U+00A0, remaining
// non-breaking spaces are swapped for private use runes while wrapping.
var (
	hideNonBreaking    = strings.NewReplacer("\u2007", "\ue007", "\u202f", "\ue02f")
	restoreNonBreaking = strings.NewReplacer("\ue007", "\u2007", "\ue02f", "\u202f")
)

func (s *Text) emit(text string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.WriteString(text)
}

func (s *Text) Notation() Notation { return PlainText }

// Write accumulates text until the next break. Leading white space after a
// break is dropped.
func (s *Text) Write(text string) {
	if s.atLineStart || s.atParStart {
		text = trimLeftSpace(text)
		if len(text) == 0 {
			return
		}
		s.atLineStart, s.atParStart = false, false
	}
	s.buf.WriteString(text)
}

// Verbatim is the same as Write, plain text has no markup.
func (s *Text) Verbatim(markup string) {
	s.Write(markup)
}

func (s *Text) Escape(text string) string { return text }

func (s *Text) LineBreak() {
	if s.atLineStart {
		return
	}
	s.emit(s.cur.wrap(s.buf.String(), s.cur.hang))
	s.emit("\n")
	s.buf.Reset()
	s.cur.hang = false
	s.atLineStart = true
}

func (s *Text) ParagraphBreak() {
	if s.atParStart {
		return
	}
	s.LineBreak()
	s.emit("\n")
	s.atParStart = true
}

func (s *Text) Indent(label string) {
	s.LineBreak()
	s.stack = append(s.stack, s.cur)
	indent := s.cur.indent + s.opts.TabWidth
	s.cur = frame{indent: indent, hang: len(label) > 0, wrap: s.makeWrap(indent)}
	if len(label) > 0 {
		s.Write(label)
		s.Write(" ")
	}
}

func (s *Text) Dedent() {
	if len(s.stack) == 0 {
		panic(ErrIndentUnderflow)
	}
	s.LineBreak()
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns number of currently open indentation blocks.
func (s *Text) Depth() int {
	return len(s.stack)
}

func (s *Text) Heading(_ int, text string) {
	s.ParagraphBreak()
	s.Write(strings.TrimSpace(text))
	s.ParagraphBreak()
}

func (s *Text) Anchor(string) {}

// Title writes collection title and optional subtitle.
func (s *Text) Title(title, subtitle string) {
	s.Write(strings.TrimSpace(title))
	s.LineBreak()
	if len(subtitle) > 0 {
		s.Write(strings.TrimSpace(subtitle))
		s.LineBreak()
	}
	s.ParagraphBreak()
}

// Summary writes indented collection summary as a separate paragraph.
func (s *Text) Summary(summary string) {
	s.ParagraphBreak()
	s.Indent("")
	s.Write(strings.TrimSpace(summary))
	s.Dedent()
	s.ParagraphBreak()
}

// Flush finishes current line and hands all buffered bytes to the underlying
// writer. Returns first error encountered while writing.
func (s *Text) Flush() error {
	s.LineBreak()
	if s.err != nil {
		return s.err
	}
	s.err = s.w.Flush()
	return s.err
}
