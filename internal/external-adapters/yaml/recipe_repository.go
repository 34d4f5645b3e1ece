package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/shipyard/internal/domain/entities"
	"github.com/ochairo/shipyard/internal/domain/interfaces"
)

const (
	recipeFileName   = "vendor.yml"
	manifestFileName = "vendors.yml"
)

type yamlManifest struct {
	Vendors []string `yaml:"vendors"`
}

// RecipeRepository implements repositories.VendorRecipeRepository over a
// vendors directory holding <lib>/vendor.yml files
type RecipeRepository struct {
	vendorsDir string
	parser     *RecipeParser
	logger     interfaces.Logger
}

// NewRecipeRepository creates a new YAML-based recipe repository
func NewRecipeRepository(vendorsDir string, logger interfaces.Logger) *RecipeRepository {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &RecipeRepository{
		vendorsDir: vendorsDir,
		parser:     NewRecipeParser(),
		logger:     logger,
	}
}

// GetRecipe retrieves a vendor recipe by library name
func (r *RecipeRepository) GetRecipe(_ context.Context, name string) (*entities.VendorRecipe, error) {
	filePath := filepath.Join(r.vendorsDir, name, recipeFileName)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("recipe not found: %s", name)
	}

	return r.parser.ParseFile(filePath)
}

// ParseManifest parses vendors.yml bytes.
func ParseManifest(data []byte) (*entities.VendorManifest, error) {
	var raw yamlManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	seen := make(map[string]bool, len(raw.Vendors))
	for _, v := range raw.Vendors {
		if v == "" {
			return nil, fmt.Errorf("manifest has an empty vendor name")
		}
		if seen[v] {
			return nil, fmt.Errorf("vendor %s listed twice", v)
		}
		seen[v] = true
	}
	return &entities.VendorManifest{Vendors: raw.Vendors}, nil
}

// Manifest returns the build order: vendors.yml when present, otherwise
// every subdirectory holding a vendor.yml, sorted by name.
func (r *RecipeRepository) Manifest(_ context.Context) (*entities.VendorManifest, error) {
	manifestPath := filepath.Join(r.vendorsDir, manifestFileName)
	//nolint:gosec // G304: manifest lives in the configured vendors directory
	data, err := os.ReadFile(manifestPath)
	if err == nil {
		m, err := ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", manifestPath, err)
		}
		return m, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	entries, err := os.ReadDir(r.vendorsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read vendors directory: %w", err)
	}
	m := &entities.VendorManifest{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.vendorsDir, entry.Name(), recipeFileName)); err == nil {
			m.Vendors = append(m.Vendors, entry.Name())
		}
	}
	sort.Strings(m.Vendors)
	return m, nil
}

// ListRecipes returns every recipe in build order. Recipes that fail to
// parse are logged and skipped.
func (r *RecipeRepository) ListRecipes(ctx context.Context) ([]*entities.VendorRecipe, error) {
	m, err := r.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	recipes := make([]*entities.VendorRecipe, 0, len(m.Vendors))
	for _, name := range m.Vendors {
		recipe, err := r.GetRecipe(ctx, name)
		if err != nil {
			// Log warning but continue processing other recipes
			r.logger.Warn("failed to load recipe", interfaces.F("vendor", name), interfaces.F("error", err))
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}
