package orchestrators

import (
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// ReadVersionFile returns the version string stored at path, right-trimmed.
// With firstLine only the first line is kept.
func ReadVersionFile(path string, firstLine bool) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", entities.NewValidationError("Version file does not exist at %s", path)
	}
	//nolint:gosec // G304: path is the --version-file flag
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read version file: %w", err)
	}

	version := string(data)
	if firstLine {
		if i := strings.IndexByte(version, '\n'); i >= 0 {
			version = version[:i]
		}
	}
	version = strings.TrimRight(version, " \t\r\n")
	if version == "" {
		return "", entities.NewValidationError("version file %s is empty", path)
	}
	return version, nil
}
