// Package buildconfig exposes values stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/Harshitk-cp/odnar/internal/buildconfig.version=v0.1.0"
package buildconfig

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = ""
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is reported on /metrics.
func VersionInfo() map[string]string {
	info := map[string]string{
		"version": version,
		"commit":  commit,
	}
	if buildTime != "" {
		info["build_time"] = buildTime
	}
	return info
}
