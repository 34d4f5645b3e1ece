// Package entities defines core domain models and data structures.
package entities

// Artifact types produced by the distribution packager.
const (
	ArtifactInstaller = "installer"
	ArtifactDiskImage = "dmg"
	ArtifactArchive   = "archive"
)

// Artifact represents a finished distributable written to the output directory
type Artifact struct {
	Name     string
	Version  string
	Platform string
	Path     string
	Type     string // "installer", "dmg", "archive"

	// Optional security sidecars
	ChecksumPath  string
	SignaturePath string
}
