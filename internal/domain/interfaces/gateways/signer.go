package gateways

// ArtifactSigner produces a detached signature next to a release artifact.
type ArtifactSigner interface {
	// SignFile writes <path>.asc and returns its path
	SignFile(path string) (string, error)
}
