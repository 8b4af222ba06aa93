// Package version reports the build version of gv.
package version

import (
	"runtime/debug"
	"strings"
)

// Version is set with -ldflags "-X github.com/Dicklesworthstone/gallery_viewer/pkg/version.Version=v1.2.3".
var Version = ""

// Current returns the ldflags version, else the module version from the
// build info, else a vcs revision.
func Current() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var dirty bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "-dirty"
	}
	return "dev-" + revision
}
