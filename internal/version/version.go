// Package version holds the release version of the relation-node binaries.
package version

import "fmt"

const (
	Major = 0  // Major version component of the current release
	Minor = 1  // Minor version component of the current release
	Patch = 0  // Patch version component of the current release
	Meta  = "" // Version metadata to append to the version string
)

// Semantic holds the textual version string of the release.
var Semantic = func() string {
	v := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if Meta != "" {
		v += "-" + Meta
	}
	return v
}()

// WithCommit retrieves the version string adorned with commit metadata, if
// set via linker flags at build time.
func WithCommit(gitCommit, gitDate string) string {
	vsn := Semantic
	if len(gitCommit) >= 8 {
		vsn += "-" + gitCommit[:8]
	}
	if gitDate != "" {
		vsn += "-" + gitDate
	}
	return vsn
}
