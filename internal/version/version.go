package version

import (
	"flag"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/VinMeld/feishu-voice/internal/version.Version=...".
var (
	Version   = "develop"
	GitCommit = ""
	BuildDate = ""
)

type BuildInfo struct {
	Version   string `json:"version,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

// Get reports the build information of the running binary. The Go version
// is omitted under `go test` so output stays stable.
func Get() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if flag.Lookup("test.v") != nil {
		info.GoVersion = ""
	}
	return info
}

