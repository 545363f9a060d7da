package contracts

import (
	"fmt"
	"runtime"
)

// AppName is the product name shown in logs and version output.
const AppName = "BikePulse"

// Build metadata, overridden with -ldflags "-X bikepulse/pkg/contracts.Version=..." at link time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	GitCommit    string `json:"git_commit"`
	BuildTime    string `json:"build_time"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		GitCommit:    GitCommit,
		BuildTime:    BuildTime,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// GetFullVersionString returns a one-line version banner
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s, os: %s/%s)",
		AppName, info.Version, info.GitCommit, info.BuildTime,
		info.GoVersion, info.OS, info.Architecture)
}

// IsRelease reports whether the binary was stamped with a version.
func IsRelease() bool {
	return Version != "dev"
}
