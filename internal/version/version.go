// Package version holds the build version of propdesk.
package version

// Version is set at build time with -ldflags "-X .../version.Version=...".
var Version = "development"

// Commit is the git commit hash, set at build time.
var Commit = "unknown"

// String returns the version, with the commit appended when known.
func String() string {
	if Commit != "unknown" && Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}
