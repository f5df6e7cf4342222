// Package version carries the release version, overridable at link time:
//
//	go build -ldflags "-X gpstrack/pkg/version.Version=v1.2.0" ./cmd/gpstrack
package version

// Version is the release version of gpstrack.
var Version = "v0.3.0-dev"

// String returns the version prefixed with the program name.
func String() string { return "gpstrack " + Version }
