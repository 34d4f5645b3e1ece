package main

import (
	"github.com/schollz/cli/v2"

	"github.com/ochairo/shipyard/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/shipyard/internal/domain-orchestrators"
	"github.com/ochairo/shipyard/internal/domain/entities"
)

func tagCommand() *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "write the build-info header for a CI build",
		Description: `Examples:
  shipyard tag --buildername ci-mac-01 --buildnumber 42 --output-filename ../src/buildinfo.h`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "buildername", Usage: "name of the build machine (required)"},
			&cli.IntFlag{Name: "buildnumber", Value: -1, Usage: "build event number (required)"},
			&cli.StringFlag{Name: "output-filename", Usage: "header to write (required)"},
			&cli.StringFlag{Name: "project-root", Value: "..", Usage: "git checkout to read the revision from"},
			&cli.StringFlag{Name: "version-file", Usage: "file holding the version string (default <project-root>/VERSION)"},
		},
		Action: runTag,
	}
}

func runTag(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	if !c.IsSet("buildnumber") {
		return entities.NewValidationError("--buildnumber is required")
	}

	orch := orchestrators.NewTagOrchestrator(gateways.NewGitReader(gateways.NewExecRunner()), logger, nil)
	_, err = orch.Tag(c.Context, orchestrators.TagConfig{
		BuilderName: c.String("buildername"),
		BuildNumber: c.Int("buildnumber"),
		OutputFile:  c.String("output-filename"),
		ProjectRoot: c.String("project-root"),
		VersionFile: c.String("version-file"),
	})
	return err
}
