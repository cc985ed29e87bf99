package config

import (
	"os"
	"strings"
	"unicode"
)

// characters which could not be used in file names referenced by LaTeX
// \input regardless of platform
const texUnsafe = `%#{}\~^$&`

// names Windows reserves for devices, invalid with any extension
var deviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// CleanFileName makes single path element safe to be used as output file
// name and LaTeX input.
func CleanFileName(in string) string {
	drop := reservedChars + texUnsafe + string(os.PathSeparator) + string(os.PathListSeparator)
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(drop, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, "."), ". ")
	if len(out) == 0 {
		return "_bad_file_name_"
	}
	if deviceNames[strings.ToUpper(out)] {
		out = "_" + out
	}
	return out
}
