package main

import (
	"fmt"

	"github.com/schollz/cli/v2"

	"github.com/ochairo/shipyard/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/shipyard/internal/domain-orchestrators"
	"github.com/ochairo/shipyard/internal/domain/entities"
)

func iconCommand() *cli.Command {
	return &cli.Command{
		Name:  "icon",
		Usage: "build a .ico or .icns from square PNGs, or render placeholder art",
		Description: `Examples:
  shipyard icon -i build/dist/icon_src -o build/game.ico
  shipyard icon -i build/dist/icon_src -o build/icon.icns
  shipyard icon --gen-initials SY --font DejaVuSans.ttf --output-dir build/dist/icon_src`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input-dir", Aliases: []string{"i"}, Usage: "directory of square source PNGs"},
			&cli.StringFlag{Name: "output-file", Aliases: []string{"o"}, Usage: "icon to write; the extension picks .ico or .icns"},
			&cli.StringFlag{Name: "gen-initials", Usage: "render placeholder art with these two initials"},
			&cli.StringFlag{Name: "font", Usage: "TrueType font for --gen-initials"},
			&cli.StringFlag{Name: "fg", Value: orchestrators.DefaultForeground, Usage: "initials colour as r,g,b,a"},
			&cli.StringFlag{Name: "bg", Value: orchestrators.DefaultBackground, Usage: "background colour as r,g,b,a"},
			&cli.StringFlag{Name: "output-dir", Value: ".", Usage: "where --gen-initials writes its PNGs"},
		},
		Action: runIcon,
	}
}

func runIcon(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	runner := newToolRunner()
	orch := orchestrators.NewIconOrchestrator(
		gateways.ScanSourceImages,
		gateways.NewIconEncoder(runner, logger),
		gateways.NewIconArtist(c.String("font"), logger),
		logger,
	)

	if initials := c.String("gen-initials"); initials != "" {
		if c.String("font") == "" {
			return entities.NewValidationError("--font is required with --gen-initials")
		}
		paths, err := orch.GenerateInitials(initials, c.String("fg"), c.String("bg"), c.String("output-dir"))
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	output := c.String("output-file")
	if output == "" {
		return entities.NewValidationError("missing -o/--output-file")
	}
	input := c.String("input-dir")
	if input == "" {
		return entities.NewValidationError("missing -i/--input-dir")
	}
	return orch.Generate(c.Context, input, output)
}
