package sink

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`^`, `\^{}`,
	`_`, `\_`,
	`%`, `\%`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes characters having special meaning in LaTeX.
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}

// lineBreak is followed by empty group, otherwise text starting with "["
// becomes optional argument of \\.
const lineBreak = "\\\\{}\n"

var headingCommands = []string{`\chapter`, `\section`, `\subsection`, `\subsubsection`, `\paragraph`, `\subparagraph`}

// LaTeX produces LaTeX source. Indented blocks are rendered with "mwindent"
// environment which must be defined by the document preamble.
type LaTeX struct {
	w *bufio.Writer

	depth int
	// atLineStart and atParStart track logical state of the paragraph,
	// atNewline - physical state of the output
	atLineStart, atParStart, atNewline bool
	// line break is only emitted when more text follows in the same paragraph
	pendingBreak bool
	err          error
}

// NewLaTeX returns LaTeX sink writing to w.
func NewLaTeX(w io.Writer) *LaTeX {
	return &LaTeX{
		w:           bufio.NewWriter(w),
		atLineStart: true,
		atParStart:  true,
		atNewline:   true,
	}
}

func (s *LaTeX) emit(text string) {
	if s.err != nil || len(text) == 0 {
		return
	}
	_, s.err = s.w.WriteString(text)
	s.atNewline = strings.HasSuffix(text, "\n")
}

func (s *LaTeX) newline() {
	if !s.atNewline {
		s.emit("\n")
	}
}

func (s *LaTeX) Notation() Notation { return LaTeXMarkup }

func (s *LaTeX) Escape(text string) string { return EscapeLaTeX(text) }

func (s *LaTeX) Write(text string) {
	s.Verbatim(s.Escape(text))
}

// Verbatim writes markup as is. Runs of white space are collapsed so text
// could never produce unintended paragraph break.
func (s *LaTeX) Verbatim(markup string) {
	if s.atLineStart || s.atParStart || s.atNewline {
		markup = trimLeftSpace(markup)
		if len(markup) == 0 {
			return
		}
	}
	if s.pendingBreak {
		s.emit(lineBreak)
		s.pendingBreak = false
	}
	s.atLineStart, s.atParStart = false, false
	s.emit(collapseRuns(markup))
}

// collapseRuns squeezes white space keeping single newlines, they are
// significant after comments.
func collapseRuns(s string) string {
	if !strings.ContainsFunc(s, isBreakingSpace) {
		return s
	}
	var b strings.Builder
	var prev rune
	for _, r := range s {
		if isBreakingSpace(r) {
			if r != '\n' {
				r = ' '
			}
			if prev == '\n' || (prev == ' ' && r == ' ') {
				continue
			}
			if prev == ' ' && r == '\n' {
				str := b.String()
				b.Reset()
				b.WriteString(str[:len(str)-1])
			}
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func (s *LaTeX) LineBreak() {
	if s.atLineStart {
		return
	}
	s.pendingBreak = true
	s.atLineStart = true
}

func (s *LaTeX) ParagraphBreak() {
	if s.atParStart {
		return
	}
	s.pendingBreak = false
	s.newline()
	s.emit("\n")
	s.atLineStart, s.atParStart = true, true
}

func (s *LaTeX) Indent(label string) {
	s.pendingBreak = false
	s.newline()
	s.emit(`\begin{mwindent}{` + label + "}\n")
	s.depth++
	s.atLineStart, s.atParStart = true, true
}

func (s *LaTeX) Dedent() {
	if s.depth == 0 {
		panic(ErrIndentUnderflow)
	}
	s.pendingBreak = false
	s.newline()
	s.emit("\\end{mwindent}\n")
	s.depth--
	s.atLineStart, s.atParStart = true, false
}

// Depth returns number of currently open indentation blocks.
func (s *LaTeX) Depth() int {
	return s.depth
}

// Heading emits sectioning command, level 0 is a chapter.
func (s *LaTeX) Heading(level int, text string) {
	level = min(max(level, 0), len(headingCommands)-1)
	s.ParagraphBreak()
	s.pendingBreak = false
	s.newline()
	s.emit(headingCommands[level] + "{" + strings.TrimSpace(text) + "}\n\n")
	s.atLineStart, s.atParStart = true, true
}

// Anchor emits hyperlink target.
func (s *LaTeX) Anchor(id string) {
	if id = anchorName(id); len(id) == 0 {
		return
	}
	if s.pendingBreak {
		s.emit(lineBreak)
		s.pendingBreak = false
	}
	s.emit(`\hypertarget{` + id + `}{}`)
}

var anchorUnsafe = regexp.MustCompile(`[^A-Za-z0-9.:-]+`)

func anchorName(id string) string {
	return strings.Trim(anchorUnsafe.ReplaceAllString(id, "-"), "-")
}

func (s *LaTeX) Flush() error {
	s.pendingBreak = false
	s.newline()
	if s.err != nil {
		return s.err
	}
	s.err = s.w.Flush()
	return s.err
}

var (
	reComment   = regexp.MustCompile(`%\n[ \t]*`)
	reLineBreak = regexp.MustCompile(`\\\\(\{\})?\n`)
	reParagraph = regexp.MustCompile(`\n[ \t]*\n\s*`)
)

// CleanInline makes LaTeX fragment suitable for inclusion into single line
// context (sectioning command argument, list label): comments ending lines,
// forced line breaks and paragraph separators are removed, white space is
// collapsed.
func CleanInline(s string) string {
	s = reComment.ReplaceAllString(s, "")
	s = reLineBreak.ReplaceAllString(s, " ")
	s = reParagraph.ReplaceAllString(s, " ")
	return CollapseSpace(s)
}
