package yaml

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// DefaultIconSourceDir is used when app.yml has no icon_source.
const DefaultIconSourceDir = "build/dist/icon_src"

// yamlApp represents the raw app.yml structure
type yamlApp struct {
	Name            string         `yaml:"name"`
	ExeName         string         `yaml:"exe_name"`
	HelpURL         string         `yaml:"help_url"`
	Publisher       string         `yaml:"publisher"`
	IconSource      string         `yaml:"icon_source"`
	MainIcon        string         `yaml:"main_icon"`
	SupportURLFile  string         `yaml:"support_url_file"`
	BundleIDPrefix  string         `yaml:"bundle_id_prefix"`
	BundleSignature string         `yaml:"bundle_signature"`
	InnoSetupPath   string         `yaml:"innosetup_path"`
	Shortcuts       []yamlShortcut `yaml:"shortcuts"`
}

type yamlShortcut struct {
	Name         string `yaml:"name"`
	Filename     string `yaml:"filename"`
	IconFilename string `yaml:"icon_filename"`
	Tasks        string `yaml:"tasks"`
	WorkingDir   string `yaml:"working_dir"`
}

// ParseAppDefinition parses app.yml bytes. The version is not part of the
// file; callers attach it with AppDefinition.WithVersion.
func ParseAppDefinition(data []byte) (*entities.AppDefinition, error) {
	var raw yamlApp
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if raw.Name == "" {
		return nil, fmt.Errorf("app definition must have a name")
	}
	if raw.ExeName == "" {
		return nil, fmt.Errorf("app definition must have an exe_name")
	}

	app := &entities.AppDefinition{
		Name:            raw.Name,
		ExeName:         raw.ExeName,
		HelpURL:         raw.HelpURL,
		Publisher:       raw.Publisher,
		IconSourceDir:   raw.IconSource,
		MainIcon:        raw.MainIcon,
		SupportURLFile:  raw.SupportURLFile,
		BundleIDPrefix:  raw.BundleIDPrefix,
		BundleSignature: raw.BundleSignature,
		InnoSetupPath:   raw.InnoSetupPath,
	}
	if app.IconSourceDir == "" {
		app.IconSourceDir = DefaultIconSourceDir
	}

	for i, sc := range raw.Shortcuts {
		if sc.Name == "" || sc.Filename == "" {
			return nil, fmt.Errorf("shortcut %d needs a name and a filename", i+1)
		}
		s := entities.NewShortcut(sc.Name, sc.Filename, sc.IconFilename)
		s.Tasks = sc.Tasks
		s.WorkingDir = sc.WorkingDir
		app.Shortcuts = append(app.Shortcuts, s)
	}

	return app, nil
}

// AppRepository implements repositories.AppDefinitionRepository for one app.yml
type AppRepository struct {
	path string
}

// NewAppRepository creates a repository reading the app.yml at path
func NewAppRepository(path string) *AppRepository {
	return &AppRepository{path: path}
}

// LoadAppDefinition reads and parses the app.yml
func (r *AppRepository) LoadAppDefinition(_ context.Context) (*entities.AppDefinition, error) {
	//nolint:gosec // G304: path is the --app flag
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app definition %s: %w", r.path, err)
	}
	app, err := ParseAppDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return app, nil
}
