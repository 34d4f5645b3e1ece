package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/cli/v2"

	"github.com/ochairo/shipyard/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/shipyard/internal/domain-orchestrators"
	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/external-adapters/environment"
	"github.com/ochairo/shipyard/internal/external-adapters/yaml"
)

const recipeFileName = "vendor.yml"

func vendorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "action", Aliases: []string{"a"}, Value: entities.ActionBuild, Usage: "build, or print to log the steps without running them"},
		&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Linux, Darwin, Windows, Android or Pi (default: host)"},
		&cli.StringFlag{Name: "arch", Aliases: []string{"A"}, Value: "x64", Usage: "x86 or x64; Pi always builds armv7a"},
		&cli.BoolFlag{Name: "clean-first", Aliases: []string{"c"}, Usage: "clean before building"},
		&cli.BoolFlag{Name: "use-ccache", Aliases: []string{"C"}, Usage: "prefix compilers with ccache"},
		&cli.BoolFlag{Name: "force-clang", Aliases: []string{"f"}, Usage: "use clang on Linux"},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "debug configuration"},
		&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: entities.DefaultParallelJobs, Usage: "make parallelism"},
		&cli.StringFlag{Name: "vendors-dir", Value: "vendors", Usage: "directory holding <lib>/vendor.yml recipes"},
	}
}

func vendorCommand() *cli.Command {
	flags := append(vendorFlags(),
		&cli.StringFlag{Name: "recipe", Aliases: []string{"r"}, Usage: "library name in --vendors-dir, or a directory holding vendor.yml (default: current directory)"},
		&cli.BoolFlag{Name: "list", Aliases: []string{"l"}, Usage: "list recipes in --vendors-dir and exit"},
	)
	return &cli.Command{
		Name:  "vendor",
		Usage: "build one vendor library from its recipe",
		Description: `Examples:
  cd vendors/SDL2 && shipyard vendor -A x86
  shipyard vendor -r SDL2 -p Windows -c
  shipyard vendor -r glew -a print
  shipyard vendor --list`,
		Flags:  flags,
		Action: runVendor,
	}
}

func vendorAllCommand() *cli.Command {
	return &cli.Command{
		Name:  "vendor-all",
		Usage: "build every vendor listed in vendors.yml, stopping at the first failure",
		Flags: vendorFlags(),
		Action: func(c *cli.Context) error {
			orch, err := newVendorOrchestrator(c)
			if err != nil {
				return err
			}
			start := time.Now()
			results, err := orch.BuildAll(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("Built %d vendors in %s.\n", len(results), time.Since(start).Round(time.Second))
			fmt.Println("Success.")
			return nil
		},
	}
}

// resolveTarget reads --platform and --arch, defaulting to the host platform.
func resolveTarget(c *cli.Context) (entities.Platform, entities.Arch, error) {
	var (
		platform entities.Platform
		err      error
	)
	if name := c.String("platform"); name != "" {
		platform, err = entities.ParsePlatform(name)
	} else {
		platform, err = entities.HostPlatform()
	}
	if err != nil {
		return 0, 0, err
	}
	arch, err := entities.ResolveArch(platform, c.String("arch"))
	if err != nil {
		return 0, 0, err
	}
	return platform, arch, nil
}

func newVendorOrchestrator(c *cli.Context) (*orchestrators.VendorOrchestrator, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	platform, arch, err := resolveTarget(c)
	if err != nil {
		return nil, err
	}

	cfg, err := entities.NewBuildConfig(c.String("action"))
	if err != nil {
		return nil, err
	}
	cfg.CleanFirst = c.Bool("clean-first")
	cfg.UseCcache = c.Bool("use-ccache")
	cfg.ForceClang = c.Bool("force-clang")
	cfg.Debug = c.Bool("debug")
	cfg.ParallelJobs = c.Int("jobs")

	logger.Debug("vendor target", interfaces.F("platform", platform), interfaces.F("arch", arch))
	return orchestrators.NewVendorOrchestrator(
		yaml.NewRecipeRepository(c.String("vendors-dir"), logger),
		newToolRunner(),
		gateways.NewFileInstaller(logger),
		environment.New(),
		logger,
		orchestrators.VendorOrchestratorConfig{Platform: platform, Arch: arch, Build: cfg},
	), nil
}

// loadRecipe resolves -r: a directory holding vendor.yml, a library name
// in --vendors-dir, or the current directory when -r is empty.
func loadRecipe(c *cli.Context) (*entities.VendorRecipe, error) {
	dir := c.String("recipe")
	if dir == "" {
		dir = "."
	} else if _, err := os.Stat(filepath.Join(dir, recipeFileName)); err != nil {
		dir = filepath.Join(c.String("vendors-dir"), dir)
	}

	abs, err := filepath.Abs(filepath.Join(dir, recipeFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, entities.NewValidationError("no %s found at %s; pass -r or run inside a vendor directory", recipeFileName, abs)
	}
	return yaml.NewRecipeParser().ParseFile(abs)
}

func runVendor(c *cli.Context) error {
	orch, err := newVendorOrchestrator(c)
	if err != nil {
		return err
	}

	if c.Bool("list") {
		summaries, err := orch.List(c.Context)
		if err != nil {
			return err
		}
		fmt.Printf("Vendor recipes in %s (%d total):\n\n", c.String("vendors-dir"), len(summaries))
		for _, s := range summaries {
			names := make([]string, len(s.Platforms))
			for i, p := range s.Platforms {
				names[i] = p.String()
			}
			fmt.Printf("  %-20s %s\n", s.Name, strings.Join(names, ", "))
		}
		return nil
	}

	recipe, err := loadRecipe(c)
	if err != nil {
		return err
	}
	result, err := orch.Build(c.Context, recipe)
	if err != nil {
		return fmt.Errorf("%s: %w", recipe.Name, err)
	}
	if result.Skipped > 0 {
		fmt.Printf("%s: %d steps run, %d skipped (no project bin dir).\n", result.Library, result.Steps, result.Skipped)
	}
	fmt.Println("Success.")
	return nil
}
