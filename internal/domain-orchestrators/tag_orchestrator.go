package orchestrators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/services"
)

// RevisionReader reads the current short and long source revision
type RevisionReader interface {
	Revisions(ctx context.Context, dir string) (short, long string, err error)
}

// TagConfig holds the tag command's inputs
type TagConfig struct {
	BuilderName string
	BuildNumber int
	OutputFile  string
	ProjectRoot string
	VersionFile string // defaults to <ProjectRoot>/VERSION
}

// TagOrchestrator writes the generated build info header
type TagOrchestrator struct {
	git    RevisionReader
	logger interfaces.Logger
	now    func() time.Time
}

// NewTagOrchestrator creates a new tag orchestrator. now defaults to time.Now.
func NewTagOrchestrator(git RevisionReader, logger interfaces.Logger, now func() time.Time) *TagOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	if now == nil {
		now = time.Now
	}
	return &TagOrchestrator{git: git, logger: logger, now: now}
}

func (c TagConfig) validate() error {
	if c.BuilderName == "" {
		return entities.NewValidationError("--buildername is required")
	}
	if c.BuildNumber < 0 {
		return entities.NewValidationError("--buildnumber must be a non-negative integer, got %d", c.BuildNumber)
	}
	if c.OutputFile == "" {
		return entities.NewValidationError("--output-filename is required")
	}
	return nil
}

// Tag collects revision, version and time, then writes the header.
func (o *TagOrchestrator) Tag(ctx context.Context, cfg TagConfig) (*entities.BuildInfo, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	root := cfg.ProjectRoot
	if root == "" {
		root = ".."
	}
	versionFile := cfg.VersionFile
	if versionFile == "" {
		versionFile = filepath.Join(root, "VERSION")
	}

	short, long, err := o.git.Revisions(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read revision: %w", err)
	}

	version, err := ReadVersionFile(versionFile, true)
	if err != nil {
		return nil, err
	}
	major, minor, micro, err := services.SplitVersion(version)
	if err != nil {
		return nil, err
	}

	info := &entities.BuildInfo{
		BuilderName:  cfg.BuilderName,
		BuildNumber:  cfg.BuildNumber,
		Revision:     short,
		RevisionLong: long,
		Timestamp:    services.FormatBuildTimestamp(o.now().Local()),
		Version:      version,
		VersionMajor: major,
		VersionMinor: minor,
		VersionMicro: micro,
	}

	//nolint:gosec // G306: generated header is checked by the compiler, not a secret
	if err := os.WriteFile(cfg.OutputFile, []byte(services.RenderBuildInfo(*info)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", cfg.OutputFile, err)
	}

	o.logger.Info("wrote build info",
		interfaces.F("file", cfg.OutputFile),
		interfaces.F("revision", short),
		interfaces.F("version", version))
	return info, nil
}
