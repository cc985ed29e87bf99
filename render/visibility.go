package render

import (
	"bytes"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"mwrender/dom"
)

// Classes of navigation and maintenance boxes which make no sense in linear
// output.
var hiddenClasses = []string{"infobox", "navbox", "rellink", "dablink", "toplink", "metadata"}

// Templates which lay out several images side by side using a table.
var multipleImageTemplates = []string{"./Template:Double_image", "./Template:Triple_image"}

type templatePart struct {
	Template struct {
		Target struct {
			Href string `json:"href"`
		} `json:"target"`
	} `json:"template"`
}

// IsHidden reports "nonprintable" content which must not be rendered at all.
func IsHidden(n dom.Node) bool {
	if isMultipleImageTemplate(n) {
		return false
	}
	classes := dom.Classes(n)
	if slices.Contains(classes, "noprint") {
		return true
	}
	if style, ok := n.Attr("style"); ok && displayNone(style) {
		return true
	}
	for _, c := range hiddenClasses {
		if slices.Contains(classes, c) {
			return true
		}
	}
	return false
}

// isMultipleImageTemplate detects transclusions of side by side image
// templates. Anything unexpected in data-mw means "no".
func isMultipleImageTemplate(n dom.Node) bool {
	if t, _ := n.Attr("typeof"); t != "mw:Transclusion" {
		return false
	}
	raw, ok := n.Attr("data-mw")
	if !ok {
		return false
	}
	var data struct {
		Parts []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil || len(data.Parts) == 0 {
		return false
	}
	var part templatePart
	if err := json.Unmarshal(data.Parts[0], &part); err != nil {
		return false
	}
	return slices.Contains(multipleImageTemplates, part.Template.Target.Href)
}

// displayNone parses inline style attribute and looks for "display: none"
// declaration.
func displayNone(style string) bool {
	p := css.NewParser(parse.NewInput(strings.NewReader(style)), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return false
		case css.DeclarationGrammar:
			if string(data) != "display" {
				continue
			}
			for _, v := range p.Values() {
				if v.TokenType == css.WhitespaceToken {
					continue
				}
				if bytes.EqualFold(v.Data, []byte("none")) {
					return true
				}
				break
			}
		}
	}
}
