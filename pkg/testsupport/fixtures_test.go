package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	var catalog Catalog
	LoadFixtureJSON(t, FixturePath("catalog.json"), &catalog)

	if catalog.Store.Slug != "loja-da-ana" {
		t.Errorf("expected slug loja-da-ana, got %q", catalog.Store.Slug)
	}
	if len(catalog.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(catalog.Categories))
	}
	if got := len(catalog.Categories[0].Products); got != 3 {
		t.Errorf("expected 3 products in first category, got %d", got)
	}
}

func TestDefaultCatalog_ReturnsIndependentCopies(t *testing.T) {
	first, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	first.Categories[0].Products[0].Title = "changed"

	second, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if second.Categories[0].Products[0].Title != "Caneca Azul" {
		t.Errorf("expected bundled title, got %q", second.Categories[0].Products[0].Title)
	}
}

func TestCompareWithGolden_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "out.txt")

	CompareWithGolden(t, path, []byte("hello"))

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected golden file to be written: %v", err)
	}
	if string(written) != "hello" {
		t.Errorf("expected %q, got %q", "hello", written)
	}

	CompareWithGolden(t, path, []byte("hello"))
}

func TestCompareWithGolden_UpdateEnvRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	WriteGolden(t, path, []byte("old"))

	t.Setenv(UpdateGoldenEnv, "1")
	CompareWithGolden(t, path, []byte("new"))

	written := LoadFixture(t, path)
	if string(written) != "new" {
		t.Errorf("expected golden to be rewritten, got %q", written)
	}
}

func TestCompareWithGoldenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	CompareWithGoldenJSON(t, path, map[string]int{"b": 2, "a": 1})

	expected := "{\n  \"a\": 1,\n  \"b\": 2\n}\n"
	if got := string(LoadFixture(t, path)); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestPaths(t *testing.T) {
	if got := FixturePath("x.json"); got != filepath.Join("testdata", "x.json") {
		t.Errorf("unexpected fixture path %q", got)
	}
	if got := GoldenPath("x.txt"); got != filepath.Join("testdata", "golden", "x.txt") {
		t.Errorf("unexpected golden path %q", got)
	}
}
