// Package buildinfo reports the version of the multiboard binary.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/asciipip/multiboard-parametric-stacked/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/asciipip/multiboard-parametric-stacked/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/asciipip/multiboard-parametric-stacked/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/multiboard
//
// Binaries built with `go install` fall back to the module version and VCS
// settings recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var once sync.Once

// resolve fills unstamped values from the embedded build info.
func resolve() {
	once.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "none" && len(s.Value) >= 7 {
					Commit = s.Value[:7]
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// String returns the formatted build information.
func String() string {
	resolve()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	resolve()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Short returns the version alone, resolving it first.
func Short() string {
	resolve()
	return Version
}
