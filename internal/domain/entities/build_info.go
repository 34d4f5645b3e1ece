package entities

// BuildInfo is the metadata stamped into the generated build header.
type BuildInfo struct {
	BuilderName  string
	BuildNumber  int
	Revision     string
	RevisionLong string
	Timestamp    string
	Version      string
	VersionMajor string
	VersionMinor string
	VersionMicro string
}
