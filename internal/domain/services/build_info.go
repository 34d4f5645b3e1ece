package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// BuildTimestampLayout mimics the DOS %date% %time% pair.
const BuildTimestampLayout = "Mon 01/02/2006  03:04:05.00"

// FormatBuildTimestamp formats t for the BUILD_TIMESTAMP define.
func FormatBuildTimestamp(t time.Time) string {
	return t.Format(BuildTimestampLayout)
}

// SplitVersion splits "major.minor.micro[...]" into its first three parts.
func SplitVersion(version string) (major, minor, micro string, err error) {
	parts := strings.Split(version, ".")
	if len(parts) < 3 {
		return "", "", "", entities.NewValidationError("version %q must have the form major.minor.micro", version)
	}
	return parts[0], parts[1], parts[2], nil
}

// RenderBuildInfo renders the generated header. The text ends with a blank
// line, and the comment lines keep their trailing spaces.
func RenderBuildInfo(info entities.BuildInfo) string {
	lines := []string{
		"// generated buildinfo from build server. ",
		"// do not check in. do not modify",
		"",
		"// name of the machine that compiled the build.",
		fmt.Sprintf("#define BUILDERNAME \"%s\"", info.BuilderName),
		"",
		"// unique build event number from builder.  ",
		fmt.Sprintf("const unsigned int BUILDNUMBER=%d;", info.BuildNumber),
		"",
		"// Git short hash or similar",
		fmt.Sprintf("#define REVISION \"%s\"", info.Revision),
		"",
		"// Git long hash (or same as REVISION)",
		fmt.Sprintf("#define REVISION_LONG \"%s\"", info.RevisionLong),
		"",
		"// Build timestamp string",
		fmt.Sprintf("#define BUILD_TIMESTAMP \"%s\"", info.Timestamp),
		"",
		"// version bits",
		fmt.Sprintf("#define VERSION_STRING \"%s\"", info.Version),
		fmt.Sprintf("#define VERSION_MAJOR %s", info.VersionMajor),
		fmt.Sprintf("#define VERSION_MINOR %s", info.VersionMinor),
		fmt.Sprintf("#define VERSION_MICRO %s", info.VersionMicro),
	}
	return strings.Join(lines, "\n") + "\n\n"
}
