package render

import (
	"regexp"
	"strings"
)

var (
	newlines    = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	newlineRuns = regexp.MustCompile(`\n{2,}`)
	quotes      = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// TextEscape normalizes text node content before it reaches the sink: unix
// line ends only, no empty lines, no leading or trailing line ends and plain
// quotes instead of typographic ones. TextEscape(TextEscape(s)) == TextEscape(s).
func TextEscape(s string) string {
	s = newlineRuns.ReplaceAllString(newlines.Replace(s), "\n")
	s = strings.Trim(s, "\n")
	return quotes.Replace(s)
}
