// Package version reports the build the running codeshape binary came
// from.
package version

import "runtime/debug"

// Version and Commit are set at link time:
//
//	go build -ldflags "-X github.com/Sumatoshi-tech/codeshape/pkg/version.Version=v1.2.0"
//
//nolint:gochecknoglobals // overwritten by the linker.
var (
	Version = "dev"
	Commit  = "<unknown>"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Current returns the link-time values, falling back to the module build
// info for binaries installed with go install.
func Current() Info {
	info := Info{Version: Version, Commit: Commit}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = build.GoVersion

	if info.Version == "dev" && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}

	if info.Commit == "<unknown>" {
		for _, setting := range build.Settings {
			if setting.Key == "vcs.revision" {
				info.Commit = setting.Value
			}
		}
	}

	return info
}
