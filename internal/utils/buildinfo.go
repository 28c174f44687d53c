// Package utils provides logging, version, and string helpers shared by the CLI.
package utils

import (
	"runtime/debug"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	vcsRevisionSetting = "vcs.revision"
	shortRevisionSize  = 12
)

// Version is set at link time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion reports the linked version, then the module version from the
// build info, then the VCS revision the binary was built from.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == vcsRevisionSetting && setting.Value != "" {
			revision := setting.Value
			if len(revision) > shortRevisionSize {
				revision = revision[:shortRevisionSize]
			}
			return revision
		}
	}
	return unknownVersion
}
