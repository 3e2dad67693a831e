// Package version reports build metadata stamped at link time
package version

import "runtime/debug"

// BuildInfo holds version information about the build
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
}

// Set via -ldflags "-X 'combatscore/internal/core/version.version=v0.1.0'
// -X 'combatscore/internal/core/version.commit=abcd' -X 'combatscore/internal/core/version.date=2025-09-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information
// Without ldflags the vcs revision recorded by the toolchain is used as commit when present
func Info() BuildInfo {
	bi := BuildInfo{Version: version, Commit: commit, Date: date}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		bi.GoVersion = info.GoVersion
		if bi.Commit == "none" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					bi.Commit = s.Value
				}
			}
		}
	}
	return bi
}

// String renders "version (commit, date)"
func (b BuildInfo) String() string {
	return b.Version + " (" + b.Commit + ", " + b.Date + ")"
}
