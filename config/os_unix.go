//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// reservedChars are not allowed in file names in addition to path separators.
const reservedChars = "\x00"

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
