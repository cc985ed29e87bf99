package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"mwrender/config"
)

// Values is a struct that holds variables we make available for article file
// name template expansion
type Values struct {
	Context  string
	Index    int
	Title    string
	Chapter  string
	Wiki     int
	Revision string
	Format   string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// articleFileName produces sanitized file name for article output, every
// path element of expanded template is slugified separately so templates
// could put articles into subdirectories.
func articleFileName(tmpl string, values Values, format config.OutputFmt) (string, error) {
	values.Format = format.String()
	expanded, err := expandTemplate(config.ArticleNameTemplateFieldName, tmpl, values)
	if err != nil {
		return "", err
	}

	var parts []string
	for p := range strings.SplitSeq(filepath.ToSlash(expanded), "/") {
		if p = slug.Make(p); p == "" {
			continue
		}
		parts = append(parts, config.CleanFileName(p))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%03d", values.Index))
	}
	return filepath.Join(parts...) + format.Ext(), nil
}
