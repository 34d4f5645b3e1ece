// Package yaml provides YAML-based recipe, manifest and app definition parsing.
package yaml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// yamlRecipe represents the raw vendor.yml structure
type yamlRecipe struct {
	Name      string                        `yaml:"name"`
	EnvPrefix string                        `yaml:"env_prefix"`
	Platforms map[string]yamlPlatformRecipe `yaml:"platforms"`
}

type yamlPlatformRecipe struct {
	ArchDirs map[string]string `yaml:"arch_dirs"`
	Steps    []yamlStep        `yaml:"steps"`
}

type yamlStep struct {
	Op            string          `yaml:"op"`
	Args          []string        `yaml:"args"`
	Path          string          `yaml:"path"`
	Dest          string          `yaml:"dest"`
	Configuration string          `yaml:"configuration"`
	Project       string          `yaml:"project"`
	Command       string          `yaml:"command"`
	Toolchain     string          `yaml:"toolchain"`
	Old           string          `yaml:"old"`
	New           string          `yaml:"new"`
	Vars          []string        `yaml:"vars"`
	Features      map[string]bool `yaml:"features"`
	Archs         []string        `yaml:"archs"`
	Products      []string        `yaml:"products"`
	Jobs          int             `yaml:"jobs"`

	InstallToTemp       bool `yaml:"install_to_temp"`
	FromTemp            bool `yaml:"from_temp"`
	IgnoreExit          bool `yaml:"ignore_exit"`
	IgnoreClean         bool `yaml:"ignore_clean"`
	OmitArch            bool `yaml:"omit_arch"`
	UseCpp              bool `yaml:"use_cpp"`
	UniversalWorkingDir bool `yaml:"universal_working_dir"`
	RequiresBin         bool `yaml:"requires_bin"`
}

var knownOps = map[string]bool{
	entities.OpVerifyEnvironment:   true,
	entities.OpSetArchEnvironment:  true,
	entities.OpShell:               true,
	entities.OpConfigure:           true,
	entities.OpMake:                true,
	entities.OpMakeCommand:         true,
	entities.OpMakeOptionalClean:   true,
	entities.OpNMakeBuild:          true,
	entities.OpNMakeCommand:        true,
	entities.OpNMakeOptionalClean:  true,
	entities.OpDevenvUpgrade:       true,
	entities.OpDevenvClean:         true,
	entities.OpDevenvBuild:         true,
	entities.OpNdkOptionalClean:    true,
	entities.OpNdkBuild:            true,
	entities.OpNdkSetAltToolchain:  true,
	entities.OpSetupUniversalPaths: true,
	entities.OpLipoCreate:          true,
	entities.OpSymlinkToUniversal:  true,
	entities.OpCopyBuildProducts:   true,
	entities.OpReplaceStringInFile: true,
	entities.OpConfirmBinary:       true,
	entities.OpInstallFileInBinDir: true,
	entities.OpCopyHeaderFiles:     true,
	entities.OpCopyLibFile:         true,
	entities.OpCopyFile:            true,
	entities.OpMkdir:               true,
}

// RecipeParser parses vendor.yml files
type RecipeParser struct{}

// NewRecipeParser creates a new YAML parser
func NewRecipeParser() *RecipeParser {
	return &RecipeParser{}
}

// ParseFile parses a vendor.yml file. The recipe's Dir is the file's directory.
func (p *RecipeParser) ParseFile(filePath string) (*entities.VendorRecipe, error) {
	//nolint:gosec // G304: filePath is a recipe path from the vendors directory
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	recipe, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	recipe.Dir = filepath.Dir(filePath)
	return recipe, nil
}

// Parse parses YAML bytes into a VendorRecipe
func (p *RecipeParser) Parse(data []byte) (*entities.VendorRecipe, error) {
	var raw yamlRecipe
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if raw.Name == "" {
		return nil, fmt.Errorf("recipe must have a name")
	}

	recipe := &entities.VendorRecipe{
		Name:      raw.Name,
		EnvPrefix: raw.EnvPrefix,
		Platforms: make(map[entities.Platform]*entities.PlatformRecipe, len(raw.Platforms)),
	}
	if recipe.EnvPrefix == "" {
		recipe.EnvPrefix = entities.DefaultEnvPrefix
	}

	for name, rp := range raw.Platforms {
		platform, err := entities.ParsePlatform(name)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: unknown platform %q", raw.Name, name)
		}
		converted, err := convertPlatformRecipe(rp)
		if err != nil {
			return nil, fmt.Errorf("recipe %s, platform %s: %w", raw.Name, platform, err)
		}
		recipe.Platforms[platform] = converted
	}

	return recipe, nil
}

func convertPlatformRecipe(rp yamlPlatformRecipe) (*entities.PlatformRecipe, error) {
	out := &entities.PlatformRecipe{ArchDirs: make(map[entities.Arch]string, len(rp.ArchDirs))}
	for key, dir := range rp.ArchDirs {
		arch, err := parseArchKey(key)
		if err != nil {
			return nil, err
		}
		out.ArchDirs[arch] = dir
	}

	for i, s := range rp.Steps {
		if !knownOps[s.Op] {
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, s.Op)
		}
		out.Steps = append(out.Steps, convertStep(s))
	}
	return out, nil
}

func parseArchKey(key string) (entities.Arch, error) {
	if strings.EqualFold(key, entities.ArchARMv7a.String()) {
		return entities.ArchARMv7a, nil
	}
	if key == "" {
		return 0, fmt.Errorf("empty arch key")
	}
	return entities.ParseArch(strings.ToLower(key))
}

func convertStep(s yamlStep) entities.VendorStep {
	return entities.VendorStep{
		Op:                  s.Op,
		Args:                s.Args,
		Path:                s.Path,
		Dest:                s.Dest,
		Configuration:       s.Configuration,
		Project:             s.Project,
		Command:             s.Command,
		Toolchain:           s.Toolchain,
		Old:                 s.Old,
		New:                 s.New,
		Vars:                s.Vars,
		Features:            s.Features,
		Archs:               s.Archs,
		Products:            s.Products,
		Jobs:                s.Jobs,
		InstallToTemp:       s.InstallToTemp,
		FromTemp:            s.FromTemp,
		IgnoreExit:          s.IgnoreExit,
		IgnoreClean:         s.IgnoreClean,
		OmitArch:            s.OmitArch,
		UseCpp:              s.UseCpp,
		UniversalWorkingDir: s.UniversalWorkingDir,
		RequiresBin:         s.RequiresBin,
	}
}
