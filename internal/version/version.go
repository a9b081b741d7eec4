// Package version reports the folio build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/folio/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by `folio --version`. When the
// binary was built without ldflags the VCS revision embedded by the Go
// toolchain is used instead.
func String() string {
	commit := GitCommit
	if commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 12 {
					commit = s.Value[:12]
				}
			}
		}
	}
	return fmt.Sprintf("folio %s (commit %s, built %s, %s %s/%s)",
		Version, commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
