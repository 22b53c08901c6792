// Package version reports the build version of the chimney binary.
//
// Values are injected at build time:
//
//	go build -ldflags "-X github.com/kbukum/chimney/version.Version=1.0.0"
//
// Missing values are filled from the module build info when available.
package version
