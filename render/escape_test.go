package render

import (
	"testing"

	"mwrender/dom"
)

func TestTextEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"\r\nline\r\n\r\n\rnext\n", "line\nnext"},
		{"\n\n\n", ""},
		{"“quoted” and ‘single’", `"quoted" and 'single'`},
		{"  spaces  stay ", "  spaces  stay "},
	}
	for _, tt := range tests {
		got := TextEscape(tt.in)
		if got != tt.want {
			t.Errorf("TextEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := TextEscape(got); again != got {
			t.Errorf("TextEscape is not idempotent for %q: %q -> %q", tt.in, got, again)
		}
	}
}

func TestIsHidden(t *testing.T) {
	multi := `{"parts":[{"template":{"target":{"href":"./Template:Triple_image"}}}]}`
	tests := []struct {
		name  string
		attrs []dom.Attr
		want  bool
	}{
		{"plain", nil, false},
		{"noprint", []dom.Attr{{Name: "class", Value: "a noprint"}}, true},
		{"metadata", []dom.Attr{{Name: "class", Value: "metadata"}}, true},
		{"dablink", []dom.Attr{{Name: "class", Value: "hatnote dablink"}}, true},
		{"similar class", []dom.Attr{{Name: "class", Value: "infoboxes"}}, false},
		{"display none", []dom.Attr{{Name: "style", Value: "display:none"}}, true},
		{"display none spaced", []dom.Attr{{Name: "style", Value: "font-size: 90%;  Display :  NONE ;"}}, true},
		{"display none important", []dom.Attr{{Name: "style", Value: "display:none !important"}}, true},
		{"display inline", []dom.Attr{{Name: "style", Value: "display:inline"}}, false},
		{"other property", []dom.Attr{{Name: "style", Value: "visibility:none"}}, false},
		{"broken style", []dom.Attr{{Name: "style", Value: "display"}}, false},
		{"multiple image template", []dom.Attr{
			{Name: "class", Value: "noprint"},
			{Name: "typeof", Value: "mw:Transclusion"},
			{Name: "data-mw", Value: multi},
		}, false},
		{"other template", []dom.Attr{
			{Name: "class", Value: "noprint"},
			{Name: "typeof", Value: "mw:Transclusion"},
			{Name: "data-mw", Value: `{"parts":[{"template":{"target":{"href":"./Template:Cite"}}}]}`},
		}, true},
		{"text part first", []dom.Attr{
			{Name: "class", Value: "noprint"},
			{Name: "typeof", Value: "mw:Transclusion"},
			{Name: "data-mw", Value: `{"parts":["text",{"template":{"target":{"href":"./Template:Double_image"}}}]}`},
		}, true},
		{"broken data", []dom.Attr{
			{Name: "class", Value: "noprint"},
			{Name: "typeof", Value: "mw:Transclusion"},
			{Name: "data-mw", Value: `{"parts":`},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHidden(dom.NewElement("div", tt.attrs)); got != tt.want {
				t.Errorf("IsHidden() = %v, want %v", got, tt.want)
			}
		})
	}
}
