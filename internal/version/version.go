// Package version reports the build identity of the dock binary.
package version

import "runtime/debug"

var (
	// These are set via -ldflags during release builds.
	GitRepo   string
	GitCommit string
	BuildTime string
)

// Info is the version information reported by `dock version`.
type Info struct {
	GitRepo   string           `json:"gitRepo,omitempty"`
	GitCommit string           `json:"gitCommit,omitempty"`
	BuildTime string           `json:"buildTime,omitempty"`
	BuildInfo *debug.BuildInfo `json:"buildInfo,omitempty"`
}

// Get returns the version information for the running binary.
func Get() Info {
	buildInfo, ok := debug.ReadBuildInfo()
	ret := Info{
		GitRepo:   GitRepo,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
	if ok {
		ret.BuildInfo = buildInfo
	}
	return ret
}

// Equal reports whether two Infos describe the same release: dock never
// compares the embedded debug.BuildInfo (VersionCmd only reads it for
// display), so Equal sticks to the ldflags-set release identity.
func (v Info) Equal(other Info) bool {
	return v.BuildTime == other.BuildTime &&
		v.GitCommit == other.GitCommit &&
		v.GitRepo == other.GitRepo
}

// String renders a short, human readable summary.
func (v Info) String() string {
	commit := v.GitCommit
	if commit == "" {
		commit = "unknown"
	}
	return "dock " + commit
}
