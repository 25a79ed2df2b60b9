// Package version holds build version information.
package version

// Version is the current release version. It can be overridden at build time via
// -ldflags "-X lmstudio-proxy/internal/version.Version=vX.Y.Z".
var Version = "v1.0.0"
