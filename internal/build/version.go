// Package build provides information about the current build.
package build

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version contains the current semantic version of steplog.
const Version = "0.1.0"

// Commit is the git commit steplog was built from. It is set with
// -ldflags "-X github.com/liuxd6825/steplog/internal/build.Commit=...".
var Commit = "" //nolint:gochecknoglobals

// commit returns Commit, or the VCS revision recorded by the Go toolchain.
func commit() string {
	if Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 10 {
				rev = rev[:10]
			}
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if rev == "" {
		return ""
	}
	return rev + dirty
}

// FullVersion returns the version with the commit and the Go runtime it was
// built with.
func FullVersion() string {
	goVersionArch := fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if c := commit(); c != "" {
		return fmt.Sprintf("%s (commit/%s, %s)", Version, c, goVersionArch)
	}
	return fmt.Sprintf("%s (%s)", Version, goVersionArch)
}

// VersionDetails returns the version details as a map.
func VersionDetails() map[string]string {
	details := map[string]string{
		"version":    "v" + Version,
		"go_version": runtime.Version(),
		"go_os":      runtime.GOOS,
		"go_arch":    runtime.GOARCH,
	}
	if c := commit(); c != "" {
		details["commit"] = c
	}
	return details
}
