// Package misc keeps build time program identification.
package misc

import (
	"runtime/debug"
)

const appName = "mwrender"

// set by linker: -X mwrender/misc.version=... -X mwrender/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git revision program was built from, falling back to
// VCS information recorded by the go tool.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
