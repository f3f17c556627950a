// Package version provides the semantic version of the server build.
package version

import "fmt"

// Version is the service current released version.
var Version = "0.3.1"

// DevVersion is the service development version.
var DevVersion = "0.3.1"

func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}

func GetSemanticVersion() string {
	return fmt.Sprintf("v%s", Version)
}
