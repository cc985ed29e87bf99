package config

// Specification of requested output notation.
// ENUM(text, latex)
type OutputFmt int

// Ext returns file extension for the notation.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtText:
		return ".txt"
	case OutputFmtLatex:
		return ".tex"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Writing direction of the text.
// ENUM(ltr, rtl)
type Directionality string
