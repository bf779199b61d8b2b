// Package version reports build information for the handoff binary.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/handoff/version.Version=1.0.0"
//
// Anything left unset falls back to the VCS stamp the Go toolchain embeds.
package version
