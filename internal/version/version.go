// Package version reports what build of embedcss is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X bennypowers.dev/embedcss/internal/version.Version=v0.1.0".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes a build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the build information, preferring values set with ldflags and
// falling back to what the Go toolchain stamped into the binary.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// Short returns the version with an abbreviated commit, e.g. "dev-1a2b3c4-dirty".
func (i Info) Short() string {
	v := i.Version
	if i.Version == "dev" && i.Commit != "" {
		v += "-" + abbrev(i.Commit)
	}
	if i.Dirty {
		v += "-dirty"
	}
	return v
}

func (i Info) String() string {
	s := i.Short()
	if i.Commit != "" {
		s = fmt.Sprintf("%s (commit: %s", s, abbrev(i.Commit))
		if i.BuildTime != "" {
			s += ", built: " + i.BuildTime
		}
		s += ")"
	}
	return s
}

func abbrev(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
