package orchestrators

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
	"github.com/ochairo/shipyard/internal/domain/interfaces/gateways"
	"github.com/ochairo/shipyard/internal/domain/interfaces/repositories"
	"github.com/ochairo/shipyard/internal/domain/services"
)

// VendorOrchestratorConfig holds the resolved CLI selection for vendor builds
type VendorOrchestratorConfig struct {
	Platform entities.Platform
	Arch     entities.Arch
	Build    entities.BuildConfig
}

// VendorOrchestrator runs vendor recipes through a VendorBuilder
type VendorOrchestrator struct {
	recipes repositories.VendorRecipeRepository
	runner  gateways.CommandRunner
	files   FileInstaller
	env     EnvSource
	logger  interfaces.Logger
	config  VendorOrchestratorConfig

	// LookPath is handed to every builder; nil keeps exec.LookPath
	LookPath func(file string) (string, error)
}

// NewVendorOrchestrator creates a new vendor orchestrator
func NewVendorOrchestrator(
	recipes repositories.VendorRecipeRepository,
	runner gateways.CommandRunner,
	files FileInstaller,
	env EnvSource,
	logger interfaces.Logger,
	config VendorOrchestratorConfig,
) *VendorOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &VendorOrchestrator{
		recipes: recipes,
		runner:  runner,
		files:   files,
		env:     env,
		logger:  logger,
		config:  config,
	}
}

// VendorBuildResult summarizes one recipe run
type VendorBuildResult struct {
	Library  string
	Root     string
	Bin      string
	Steps    int
	Skipped  int
	Duration time.Duration
}

// RecipeVars returns the variables expanded in step arguments.
func RecipeVars(cfg entities.BuildConfig, arch entities.Arch, archDir, root, bin string) map[string]string {
	vars := map[string]string{
		"CONFIG":       "Release",
		"DEBUG_SUFFIX": "",
		"ARCH":         arch.String(),
		"ARCH_DIR":     archDir,
		"ROOT":         root,
		"BIN":          bin,
	}
	if cfg.Debug {
		vars["CONFIG"] = "Debug"
		vars["DEBUG_SUFFIX"] = "d"
	}
	if archDir == "" {
		vars["ARCH_DIR"] = arch.String()
	}
	return vars
}

// ExpandStep substitutes $VARS in every string argument of a step.
// Unknown variables are left untouched.
func ExpandStep(step entities.VendorStep, vars map[string]string) entities.VendorStep {
	expand := func(s string) string {
		return os.Expand(s, func(key string) string {
			if v, ok := vars[key]; ok {
				return v
			}
			return "${" + key + "}"
		})
	}
	expandAll := func(in []string) []string {
		if in == nil {
			return nil
		}
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = expand(s)
		}
		return out
	}

	step.Args = expandAll(step.Args)
	step.Path = expand(step.Path)
	step.Dest = expand(step.Dest)
	step.Configuration = expand(step.Configuration)
	step.Project = expand(step.Project)
	step.Command = expand(step.Command)
	step.Toolchain = expand(step.Toolchain)
	step.Old = expand(step.Old)
	step.New = expand(step.New)
	step.Vars = expandAll(step.Vars)
	step.Archs = expandAll(step.Archs)
	step.Products = expandAll(step.Products)
	return step
}

// Build runs the recipe's steps for the configured platform.
func (o *VendorOrchestrator) Build(ctx context.Context, recipe *entities.VendorRecipe) (*VendorBuildResult, error) {
	start := time.Now()
	p := o.config.Platform

	pr, ok := recipe.Platforms[p]
	if !ok || pr == nil {
		return nil, entities.NewEnvironmentError("recipe %s has no steps for platform %s", recipe.Name, p)
	}

	bctx := entities.NewBuildContext(p, o.config.Arch)
	builder := NewVendorBuilder(o.runner, o.files, o.env, o.logger, VendorBuilderConfig{
		Library: recipe.Name,
		WorkDir: recipe.Dir,
		Build:   o.config.Build,
		Context: bctx,
	})
	if o.LookPath != nil {
		builder.LookPath = o.LookPath
	}
	//nolint:errcheck // Best-effort temp dir cleanup
	defer builder.Close()

	root, err := builder.ProjectRootDir(recipe.EnvPrefix)
	if err != nil {
		return nil, err
	}
	bin, err := builder.ProjectBinDir(recipe.EnvPrefix)
	if err != nil {
		return nil, err
	}

	result := &VendorBuildResult{Library: recipe.Name, Root: root, Bin: bin}
	vars := RecipeVars(o.config.Build, o.config.Arch, pr.ArchDirs[o.config.Arch], root, bin)

	o.logger.Info("building vendor",
		interfaces.F("lib", recipe.Name),
		interfaces.F("platform", p),
		interfaces.F("arch", o.config.Arch),
		interfaces.F("action", o.config.Build.Action))

	for i, raw := range pr.Steps {
		if raw.RequiresBin && bin == "" {
			o.logger.Info("skipping step, no project bin dir", interfaces.F("step", i+1), interfaces.F("op", raw.Op))
			result.Skipped++
			continue
		}
		step := ExpandStep(raw, vars)
		o.logger.Debug("step", interfaces.F("n", i+1), interfaces.F("op", step.Op))
		if err := o.runStep(ctx, builder, step, root, bin); err != nil {
			return result, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		result.Steps++
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (o *VendorOrchestrator) runStep(ctx context.Context, b *VendorBuilder, s entities.VendorStep, root, bin string) error {
	checked := !s.IgnoreExit
	dstRoot := root
	if s.Dest != "" {
		dstRoot = s.Dest
	}

	switch s.Op {
	case entities.OpVerifyEnvironment:
		return b.VerifyEnvironment(s.Vars)

	case entities.OpSetArchEnvironment:
		arch := o.config.Arch
		if len(s.Archs) > 0 {
			a, err := entities.ResolveArch(o.config.Platform, s.Archs[0])
			if err != nil {
				return err
			}
			arch = a
		}
		return b.SetArchEnvironment(root, arch, s.UniversalWorkingDir, s.UseCpp)

	case entities.OpShell:
		argv := s.Args
		if s.Command != "" {
			argv = []string{"sh", "-c", s.Command}
		}
		if len(argv) == 0 {
			return entities.NewValidationError("shell step needs a command or args")
		}
		return b.Shell(ctx, argv, checked)

	case entities.OpConfigure:
		args := append(append([]string(nil), s.Args...), services.BuildArgsFromFeatures(s.Features)...)
		return b.Configure(ctx, args, s.InstallToTemp)

	case entities.OpMake:
		return b.Make(ctx, s.Jobs)

	case entities.OpMakeCommand:
		return b.MakeCommand(ctx, s.Args, checked)

	case entities.OpMakeOptionalClean:
		return b.MakeOptionalClean(ctx, checked)

	case entities.OpNMakeBuild:
		return b.NMakeBuild(ctx, s.Path, checked)

	case entities.OpNMakeCommand:
		return b.NMakeCommand(ctx, s.Path, s.Command, checked)

	case entities.OpNMakeOptionalClean:
		return b.NMakeOptionalClean(ctx, s.Path, checked)

	case entities.OpDevenvUpgrade:
		return b.DevenvUpgrade(ctx, s.Path)

	case entities.OpDevenvClean:
		return b.DevenvClean(ctx, s.Path, configurationOf(s, o.config.Build), !s.OmitArch)

	case entities.OpDevenvBuild:
		return b.DevenvBuild(ctx, s.Path, configurationOf(s, o.config.Build), s.Project, !s.OmitArch, s.IgnoreClean)

	case entities.OpNdkOptionalClean:
		return b.NdkOptionalClean(ctx, checked)

	case entities.OpNdkBuild:
		args := s.Args
		if o.config.Build.Debug {
			args = append(append([]string(nil), args...), NdkDebugBuildArgs...)
		}
		return b.NdkBuild(ctx, args)

	case entities.OpNdkSetAltToolchain:
		b.NdkSetAltToolchain(s.Toolchain)
		return nil

	case entities.OpSetupUniversalPaths:
		return b.SetupUniversalPaths(root, s.Args)

	case entities.OpLipoCreate:
		archs, err := parseArchs(s.Archs)
		if err != nil {
			return err
		}
		return b.LipoCreate(ctx, root, archs, s.Products, s.Path)

	case entities.OpSymlinkToUniversal:
		return b.SymlinkToUniversal(root, s.Path, s.Dest, "")

	case entities.OpCopyBuildProducts:
		arch := o.config.Arch
		if len(s.Archs) > 0 {
			a, err := entities.ParseArch(s.Archs[0])
			if err != nil {
				return err
			}
			arch = a
		}
		return b.CopyBuildProductsSubdir(ctx, root, arch, s.Args)

	case entities.OpReplaceStringInFile:
		return b.ReplaceStringInFile(root, s.Path, s.Old, s.New)

	case entities.OpConfirmBinary:
		return b.ConfirmBinary(s.Path)

	case entities.OpInstallFileInBinDir:
		binRoot := bin
		if s.Dest != "" {
			binRoot = s.Dest
		}
		return b.InstallFileInBinDir(s.Path, binRoot)

	case entities.OpCopyHeaderFiles:
		return b.CopyHeaderFiles(s.Path, dstRoot, s.FromTemp)

	case entities.OpCopyLibFile:
		return b.CopyLibFile(s.Path, dstRoot, s.FromTemp)

	case entities.OpCopyFile:
		return b.CopyFile(s.Path, s.Dest)

	case entities.OpMkdir:
		return b.Mkdir(s.Path)

	default:
		return entities.NewValidationError("unknown op %q", s.Op)
	}
}

func configurationOf(s entities.VendorStep, cfg entities.BuildConfig) string {
	if s.Configuration != "" {
		return s.Configuration
	}
	if cfg.Debug {
		return "Debug"
	}
	return "Release"
}

func parseArchs(names []string) ([]entities.Arch, error) {
	archs := make([]entities.Arch, 0, len(names))
	for _, n := range names {
		a, err := entities.ParseArch(n)
		if err != nil {
			return nil, err
		}
		archs = append(archs, a)
	}
	return archs, nil
}

// BuildNamed loads a recipe by name and builds it.
func (o *VendorOrchestrator) BuildNamed(ctx context.Context, name string) (*VendorBuildResult, error) {
	recipe, err := o.recipes.GetRecipe(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return o.Build(ctx, recipe)
}

// BuildAll builds every vendor in manifest order and stops at the first failure.
func (o *VendorOrchestrator) BuildAll(ctx context.Context) ([]*VendorBuildResult, error) {
	manifest, err := o.recipes.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor manifest: %w", err)
	}
	if len(manifest.Vendors) == 0 {
		return nil, entities.NewValidationError("no vendors to build")
	}

	results := make([]*VendorBuildResult, 0, len(manifest.Vendors))
	for _, name := range manifest.Vendors {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := o.BuildNamed(ctx, name)
		if err != nil {
			return results, fmt.Errorf("%s failed building: %w", name, err)
		}
		o.logger.Info("vendor built", interfaces.F("lib", name), interfaces.F("duration", result.Duration.Round(time.Millisecond)))
		results = append(results, result)
	}
	return results, nil
}

// VendorSummary is one line of the recipe listing
type VendorSummary struct {
	Name      string
	Platforms []entities.Platform
}

// List describes every loadable recipe and the platforms it supports.
func (o *VendorOrchestrator) List(ctx context.Context) ([]VendorSummary, error) {
	recipes, err := o.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	summaries := make([]VendorSummary, 0, len(recipes))
	for _, r := range recipes {
		s := VendorSummary{Name: r.Name}
		for _, p := range entities.SupportedPlatforms {
			if _, ok := r.Platforms[p]; ok {
				s.Platforms = append(s.Platforms, p)
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
