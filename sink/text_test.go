package sink

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

const fox = "The quick brown fox jumps over the lazy dog and keeps running far away"

func render(opts TextOptions, f func(s *Text)) string {
	var b strings.Builder
	s := NewText(&b, opts)
	f(s)
	if err := s.Flush(); err != nil {
		panic(err)
	}
	return b.String()
}

func TestText_Layout(t *testing.T) {
	tests := []struct {
		name string
		opts TextOptions
		f    func(s *Text)
		want string
	}{
		{
			name: "no leading break",
			f: func(s *Text) {
				s.ParagraphBreak()
				s.LineBreak()
				s.Write("  \n Hello")
			},
			want: "Hello\n",
		},
		{
			name: "idempotent paragraph break",
			f: func(s *Text) {
				s.Write("a")
				s.ParagraphBreak()
				s.ParagraphBreak()
				s.LineBreak()
				s.ParagraphBreak()
				s.Write("b")
			},
			want: "a\n\nb\n",
		},
		{
			name: "whitespace only write does not start line",
			f: func(s *Text) {
				s.Write("a")
				s.LineBreak()
				s.Write("   ")
				s.LineBreak()
				s.Write("b")
			},
			want: "a\nb\n",
		},
		{
			name: "wrap",
			opts: TextOptions{Columns: 30},
			f:    func(s *Text) { s.Write(fox) },
			want: "The quick brown fox jumps over\nthe lazy dog and keeps running\nfar away\n",
		},
		{
			name: "wrap collapses white space",
			opts: TextOptions{Columns: 30},
			f: func(s *Text) {
				s.Write("The quick  brown\tfox")
				s.Write("  jumps\nover the lazy dog and keeps running far away")
			},
			want: "The quick brown fox jumps over\nthe lazy dog and keeps running\nfar away\n",
		},
		{
			name: "labelled frame hangs first line",
			opts: TextOptions{Columns: 30},
			f: func(s *Text) {
				s.Indent("*")
				s.Write(fox)
				s.Dedent()
			},
			want: "* The quick brown fox jumps\n  over the lazy dog and keeps\n  running far away\n",
		},
		{
			name: "hanging first line uses full width",
			opts: TextOptions{Columns: 30},
			f: func(s *Text) {
				s.Indent("*")
				s.Write("aaaa bbbb cccc dddd eeee fff ggg")
				s.Dedent()
			},
			want: "* aaaa bbbb cccc dddd eeee fff\n  ggg\n",
		},
		{
			name: "label hangs only on first line",
			f: func(s *Text) {
				s.Indent("*")
				s.Write("one")
				s.LineBreak()
				s.Write("two")
				s.Dedent()
			},
			want: "* one\n  two\n",
		},
		{
			name: "nested labels",
			f: func(s *Text) {
				s.Write("Intro")
				s.Indent("*")
				s.Write("one")
				s.Indent("-")
				s.Write("sub")
				s.Dedent()
				s.Dedent()
				s.Indent("*")
				s.Write("two")
				s.Dedent()
			},
			want: "Intro\n* one\n  - sub\n* two\n",
		},
		{
			name: "unlabelled indent",
			f: func(s *Text) {
				s.Indent("")
				s.Write("quote")
				s.Dedent()
				s.Write("after")
			},
			want: "  quote\nafter\n",
		},
		{
			name: "deep indentation keeps room for text",
			opts: TextOptions{Columns: 30},
			f: func(s *Text) {
				for range 8 {
					s.Indent("")
				}
				s.Write(fox)
			},
			want: "          The quick brown fox\n          jumps over the lazy\n          dog and keeps\n          running far away\n",
		},
		{
			name: "no wrap",
			opts: TextOptions{Columns: 30, NoWrap: true},
			f: func(s *Text) {
				s.Indent("1.")
				s.Write(fox)
				s.Indent("-")
				s.Write("nested   item")
				s.Dedent()
				s.Dedent()
			},
			want: "1. " + fox + "\n  - nested item\n",
		},
		{
			name: "non breaking space is kept",
			opts: TextOptions{Columns: 30},
			f:    func(s *Text) { s.Write("a\u00a0b  c") },
			want: "a\u00a0b c\n",
		},
		{
			name: "narrow non breaking space does not wrap",
			opts: TextOptions{Columns: 30},
			f:    func(s *Text) { s.Write("aaaa bbbb cccc dddd eeee fff\u202fggg") },
			want: "aaaa bbbb cccc dddd eeee\nfff\u202fggg\n",
		},
		{
			name: "figure space does not wrap",
			opts: TextOptions{Columns: 8},
			f:    func(s *Text) { s.Write("aaaa 1\u2007000") },
			want: "aaaa\n1\u2007000\n",
		},
		{
			name: "title and summary",
			f: func(s *Text) {
				s.Title(" My Book ", "Sub")
				s.Summary("About it")
				s.Write("Body")
			},
			want: "My Book\nSub\n\n  About it\n\nBody\n",
		},
		{
			name: "heading",
			f: func(s *Text) {
				s.Write("a")
				s.Heading(1, "  Title ")
				s.Write("b")
			},
			want: "a\n\nTitle\n\nb\n",
		},
		{
			name: "verbatim and anchor",
			f: func(s *Text) {
				s.Anchor("x")
				s.Verbatim("$x_1$")
			},
			want: "$x_1$\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(tt.opts, tt.f); got != tt.want {
				t.Errorf("output mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestText_DedentUnderflow(t *testing.T) {
	s := NewText(&strings.Builder{}, TextOptions{})
	s.Indent("")
	s.Dedent()
	if s.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", s.Depth())
	}
	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, ErrIndentUnderflow) {
			t.Errorf("recovered %v, want ErrIndentUnderflow", r)
		}
	}()
	s.Dedent()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestText_FlushError(t *testing.T) {
	s := NewText(failingWriter{}, TextOptions{})
	s.Write("text")
	if err := s.Flush(); err == nil {
		t.Error("Flush() should report write error")
	}
}

// Random sequences of writes and breaks never produce leading breaks or more
// than one blank line in a row.
func TestText_BreaksNeverStack(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	words := []string{"alpha", " ", "beta gamma", "", "  ", "delta\n"}

	for i := range 200 {
		var b strings.Builder
		s := NewText(&b, TextOptions{Columns: 40})
		depth := 0
		for range 50 {
			switch rnd.Intn(5) {
			case 0:
				s.LineBreak()
			case 1:
				s.ParagraphBreak()
			case 2:
				if depth < 5 {
					s.Indent([]string{"", "*", "1."}[rnd.Intn(3)])
					depth++
				}
			case 3:
				if depth > 0 {
					s.Dedent()
					depth--
				}
			default:
				s.Write(words[rnd.Intn(len(words))])
			}
		}
		if err := s.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		out := b.String()
		if strings.HasPrefix(out, "\n") {
			t.Fatalf("iteration %d: output starts with break: %q", i, out)
		}
		if strings.Contains(out, "\n\n\n") {
			t.Fatalf("iteration %d: double blank line: %q", i, out)
		}
		for _, l := range strings.Split(out, "\n") {
			if len(l) > 0 && strings.TrimSpace(l) == "" {
				t.Fatalf("iteration %d: line with spaces only: %q", i, out)
			}
		}
	}
}
