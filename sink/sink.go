// Package sink turns stream of inline writes and structural breaks produced
// by the renderer into final output.
package sink

import (
	"errors"
	"strings"
	"unicode"
)

// ErrIndentUnderflow is a panic value raised by Dedent without matching
// Indent.
var ErrIndentUnderflow = errors.New("indent stack underflow")

// Notation identifies output language of the sink.
type Notation int

const (
	PlainText Notation = iota
	LaTeXMarkup
)

func (n Notation) String() string {
	if n == LaTeXMarkup {
		return "latex"
	}
	return "text"
}

// Sink is a stateful consumer of rendering operations. Text passed to Write
// is plain and escaped by the sink, all other text arguments are already in
// sink notation (see Escape).
type Sink interface {
	Notation() Notation
	Write(text string)
	Verbatim(markup string)
	LineBreak()
	ParagraphBreak()
	// Indent starts nested block, non-empty label is written first.
	Indent(label string)
	// Dedent closes block opened by Indent, panics with ErrIndentUnderflow
	// when there is none.
	Dedent()
	Heading(level int, text string)
	Anchor(id string)
	Escape(text string) string
	Flush() error
}

// isBreakingSpace reports white space which could be collapsed and used for
// line breaking. Non-breaking spaces are kept intact.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}

// CollapseSpace replaces runs of breaking white space with single space and
// trims the result.
func CollapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isBreakingSpace), " ")
}

func trimLeftSpace(s string) string {
	return strings.TrimLeftFunc(s, isBreakingSpace)
}
