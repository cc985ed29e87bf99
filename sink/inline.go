package sink

import "strings"

// Inline records rendered content as a single line. It never produces
// indentation and tolerates unbalanced Dedent. Used to compute content of
// labels and headings before it is written to the real sink.
type Inline struct {
	b        strings.Builder
	escape   func(string) string
	notation Notation

	atLineStart, atParStart bool
}

// NewInline returns recorder producing text in the notation of parent.
func NewInline(parent Sink) *Inline {
	return &Inline{
		escape:      parent.Escape,
		notation:    parent.Notation(),
		atLineStart: true,
		atParStart:  true,
	}
}

func (s *Inline) Notation() Notation { return s.notation }

func (s *Inline) Escape(text string) string { return s.escape(text) }

func (s *Inline) Write(text string) {
	s.Verbatim(s.escape(text))
}

func (s *Inline) Verbatim(markup string) {
	s.atLineStart, s.atParStart = false, false
	s.b.WriteString(markup)
}

func (s *Inline) LineBreak() {
	if !s.atLineStart {
		s.b.WriteByte(' ')
		s.atLineStart = true
	}
}

func (s *Inline) ParagraphBreak() {
	if !s.atParStart {
		s.LineBreak()
		s.atParStart = true
	}
}

func (s *Inline) Indent(label string) {
	s.LineBreak()
	if len(label) > 0 {
		s.b.WriteString(label)
		s.b.WriteByte(' ')
	}
}

func (s *Inline) Dedent() {
	s.LineBreak()
}

func (s *Inline) Heading(_ int, text string) {
	s.ParagraphBreak()
	s.Verbatim(text)
	s.ParagraphBreak()
}

func (s *Inline) Anchor(string) {}

func (s *Inline) Flush() error { return nil }

// String returns recorded content with white space collapsed. For LaTeX
// artifacts of line oriented output are removed as well.
func (s *Inline) String() string {
	if s.notation == LaTeXMarkup {
		return CleanInline(s.b.String())
	}
	return strings.Join(strings.FieldsFunc(s.b.String(), isBreakingSpace), " ")
}
