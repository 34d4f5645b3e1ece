package yaml

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeRecipe(t *testing.T, vendorsDir, name, content string) {
	t.Helper()
	dir := filepath.Join(vendorsDir, name)
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "vendor.yml"), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
}

func TestRecipeRepository_GetRecipe_Success(t *testing.T) {
	tmpDir := t.TempDir()
	writeRecipe(t, tmpDir, "SDL2", sdlRecipe)

	repo := NewRecipeRepository(tmpDir, nil)
	recipe, err := repo.GetRecipe(context.Background(), "SDL2")
	if err != nil {
		t.Fatalf("GetRecipe() error = %v", err)
	}

	if recipe.Name != "SDL2" {
		t.Errorf("GetRecipe() name = %v, want SDL2", recipe.Name)
	}
	if recipe.Dir != filepath.Join(tmpDir, "SDL2") {
		t.Errorf("GetRecipe() dir = %v", recipe.Dir)
	}
}

func TestRecipeRepository_GetRecipe_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	repo := NewRecipeRepository(tmpDir, nil)

	_, err := repo.GetRecipe(context.Background(), "nonexistent")
	if err == nil {
		t.Error("GetRecipe() should return error for nonexistent recipe")
	}
}

func TestRecipeRepository_Manifest(t *testing.T) {
	t.Run("directory scan is sorted", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeRecipe(t, tmpDir, "zlib", "name: zlib\n")
		writeRecipe(t, tmpDir, "SDL2", "name: SDL2\n")
		if err := os.MkdirAll(filepath.Join(tmpDir, "out.x64"), 0750); err != nil {
			t.Fatal(err)
		}

		m, err := NewRecipeRepository(tmpDir, nil).Manifest(context.Background())
		if err != nil {
			t.Fatalf("Manifest() error = %v", err)
		}
		if want := []string{"SDL2", "zlib"}; !reflect.DeepEqual(m.Vendors, want) {
			t.Errorf("Manifest() = %v, want %v", m.Vendors, want)
		}
	})

	t.Run("vendors.yml order wins", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeRecipe(t, tmpDir, "zlib", "name: zlib\n")
		writeRecipe(t, tmpDir, "SDL2", "name: SDL2\n")
		if err := os.WriteFile(filepath.Join(tmpDir, "vendors.yml"), []byte("vendors:\n  - zlib\n  - SDL2\n"), 0600); err != nil {
			t.Fatal(err)
		}

		m, err := NewRecipeRepository(tmpDir, nil).Manifest(context.Background())
		if err != nil {
			t.Fatalf("Manifest() error = %v", err)
		}
		if want := []string{"zlib", "SDL2"}; !reflect.DeepEqual(m.Vendors, want) {
			t.Errorf("Manifest() = %v, want %v", m.Vendors, want)
		}
	})
}

func TestParseManifest_Errors(t *testing.T) {
	for _, in := range []string{"vendors: [a, a]\n", "vendors: ['']\n", "vendors: {"} {
		if _, err := ParseManifest([]byte(in)); err == nil {
			t.Errorf("ParseManifest(%q) should fail", in)
		}
	}
}

func TestRecipeRepository_ListRecipes_SkipsBroken(t *testing.T) {
	tmpDir := t.TempDir()
	writeRecipe(t, tmpDir, "good", "name: good\n")
	writeRecipe(t, tmpDir, "broken", "platforms: {}\n")

	recipes, err := NewRecipeRepository(tmpDir, nil).ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("ListRecipes() error = %v", err)
	}
	if len(recipes) != 1 || recipes[0].Name != "good" {
		t.Errorf("ListRecipes() = %v, want only good", recipes)
	}
}
