// Package version holds build metadata, set with -ldflags at release time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	GitRelease    = "dev"
	GitCommit     = ""
	GitCommitDate = ""
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

func init() {
	if GitCommit != "" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			GitCommit = s.Value
		case "vcs.time":
			GitCommitDate = s.Value
		}
	}
}
