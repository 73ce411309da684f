// Package version exposes the build version stamped at link time.
package version

// Version is overridden at build time via
// -ldflags "-X github.com/marketlens/logocache/pkg/version.Version=v1.2.3".
var Version = "dev" //nolint:gochecknoglobals // set by the linker

// GetVersion returns the current build version.
func GetVersion() string {
	return Version
}
