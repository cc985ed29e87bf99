// Package lang maps language tags found in documents to writing
// directionality and typesetting language names.
package lang

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	LTR = "ltr"
	RTL = "rtl"

	// DefaultName is typesetting name used for unknown languages.
	DefaultName = "english"
)

// Language describes properties of a single language.
type Language struct {
	Tag  string
	Dir  string
	Name string
}

// scripts written right to left
var rtlScripts = map[string]bool{
	"Adlm": true, "Arab": true, "Aran": true, "Hebr": true, "Mand": true,
	"Mend": true, "Nkoo": true, "Rohg": true, "Samr": true, "Syrc": true,
	"Thaa": true, "Yezi": true,
}

// polyglossia names which differ from English language names
var nameOverrides = map[string]string{
	"nb":  "norsk",
	"no":  "norsk",
	"nn":  "nynorsk",
	"el":  "greek",
	"grc": "greek",
	"fa":  "farsi",
	"sr":  "serbian",
	"sh":  "serbian",
	"hr":  "croatian",
	"gd":  "scottish",
	"ga":  "irish",
	"cy":  "welsh",
	"la":  "latin",
	"ms":  "malay",
	"sl":  "slovenian",
	"dsb": "lsorbian",
	"hsb": "usorbian",
	"oc":  "occitan",
	"se":  "samin",
}

// Registry resolves language tags. Zero value is not usable, see New.
type Registry struct {
	names map[string]string
	cache map[string]Language
}

// New returns registry with built-in name overrides. Extra overrides (base
// language -> name) take precedence.
func New(extra map[string]string) *Registry {
	r := &Registry{
		names: make(map[string]string, len(nameOverrides)+len(extra)),
		cache: make(map[string]Language),
	}
	for k, v := range nameOverrides {
		r.names[k] = v
	}
	for k, v := range extra {
		r.names[strings.ToLower(k)] = v
	}
	return r
}

// Lookup returns description of language identified by tag. Unknown or
// malformed tags resolve to left to right English.
func (r *Registry) Lookup(tag string) Language {
	if l, ok := r.cache[tag]; ok {
		return l
	}
	l := r.resolve(tag)
	r.cache[tag] = l
	return l
}

func (r *Registry) resolve(tag string) Language {
	res := Language{Tag: tag, Dir: LTR, Name: DefaultName}

	t, err := language.Parse(tag)
	if err != nil {
		return res
	}

	if script, conf := t.Script(); conf != language.No && rtlScripts[script.String()] {
		res.Dir = RTL
	}

	base, conf := t.Base()
	if conf == language.No {
		return res
	}
	if name, ok := r.names[base.String()]; ok {
		res.Name = name
		return res
	}
	if name := display.English.Languages().Name(base); len(name) > 0 {
		res.Name = strings.ToLower(strings.ReplaceAll(name, " ", ""))
	}
	return res
}
