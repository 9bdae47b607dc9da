// Package buildinfo holds the version string stamped into release builds
// via -ldflags "-X github.com/iakinsey/aetherscope/internal/buildinfo.Version=...".
package buildinfo

var Version = "dev"
