// Package version reports build metadata stamped in at link time
package version

import "runtime"

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service" example:"birdspot-api"`
	Version string `json:"version" example:"v0.3.0"`
	Commit  string `json:"commit" example:"9f2c1ab"`
	Date    string `json:"date" example:"2026-05-01"`
	Go      string `json:"go" example:"go1.24.5"`
}

// Info returns the build information for service
// set with -ldflags "-X 'birdspot/internal/core/version.version=v0.3.0' -X 'birdspot/internal/core/version.commit=9f2c1ab'"
func Info(service string) BuildInfo {
	if service == "" {
		service = "birdspot"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}

// Short is the version string used in client tags
func Short() string { return version }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
