// Package version provides the version of yamlfix.
package version

import "runtime/debug"

// version is overwritten with -ldflags "-X github.com/quwac/yamlfix/version.version=...".
var version = ""

const defaultVersion = "v0.1.0"

// String returns the version of yamlfix.
func String() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return defaultVersion
}
