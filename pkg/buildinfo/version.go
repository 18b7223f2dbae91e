// Package buildinfo exposes the version stamped into the binary at link time.
//
//	go build -ldflags "-X github.com/matzehuels/animchart/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/animchart/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the JSON form served by the HTTP version endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// Short returns "version (commit)", or just the version for dev builds.
func Short() string {
	if Commit == "none" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\nbuilt: %s\n", Short(), Date)
}
