package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// shortCommitLen is the number of commit hash characters kept.
const shortCommitLen = 7

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	GitBranch string    `json:"git_branch,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get returns the build information of the running binary.
func Get() Info {
	info := fromLinker()
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(&info, bi)
	}
	return info
}

// fromLinker builds Info from the -ldflags variables only.
func fromLinker() Info {
	info := Info{
		Version:   Version,
		GitCommit: shortCommit(GitCommit),
		GitBranch: GitBranch,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t.UTC()
		}
	}
	return info
}

// applyBuildInfo fills the fields the linker left empty from the VCS stamp.
func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t.UTC()
				}
			}
		}
	}
	if info.IsDirty {
		info.IsRelease = false
	}
}

func shortCommit(c string) string {
	if len(c) > shortCommitLen {
		return c[:shortCommitLen]
	}
	return c
}

// Short returns version[-commit][-dirty].
func (i Info) Short() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// String returns the short version plus a non-default branch and the build
// date when known.
func (i Info) String() string {
	s := i.Short()
	if i.GitBranch != "" && i.GitBranch != "main" && i.GitBranch != "master" {
		s += " " + i.GitBranch
	}
	if !i.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", i.BuildDate.Format(time.RFC3339))
	}
	if i.GoVersion != "" {
		s += " " + i.GoVersion
	}
	return s
}

// Fields returns the info as structured log fields.
func (i Info) Fields() map[string]interface{} {
	f := map[string]interface{}{
		"version": i.Version,
		"release": i.IsRelease,
	}
	if i.GitCommit != "" {
		f["commit"] = i.GitCommit
	}
	if i.IsDirty {
		f["dirty"] = true
	}
	return f
}
