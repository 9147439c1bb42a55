// Package buildinfo carries build-time version information, set through
// ldflags:
//
//	go build -ldflags "-X github.com/byte4ever/postrender/buildinfo.Version=v0.4.0"
package buildinfo

import "fmt"

var (
	// Version is the semantic version, written into generated artifacts.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Generator returns the generator string used in feeds, e.g.
// "postrender v0.4.0".
func Generator() string {
	return "postrender " + Version
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf(
		"{{.Name}} version %s\ncommit: %s\nbuilt: %s\n",
		Version, Commit, Date,
	)
}
