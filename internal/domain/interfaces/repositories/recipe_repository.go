// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/shipyard/internal/domain/entities"
)

// VendorRecipeRepository defines the interface for accessing vendor build recipes
type VendorRecipeRepository interface {
	// GetRecipe retrieves a vendor recipe by library name
	GetRecipe(ctx context.Context, name string) (*entities.VendorRecipe, error)

	// ListRecipes returns every loadable recipe in build order
	ListRecipes(ctx context.Context) ([]*entities.VendorRecipe, error)

	// Manifest returns the names of all vendors in build order
	Manifest(ctx context.Context) (*entities.VendorManifest, error)
}

// AppDefinitionRepository loads the description of the app being packaged
type AppDefinitionRepository interface {
	LoadAppDefinition(ctx context.Context) (*entities.AppDefinition, error)
}
