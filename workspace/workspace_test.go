package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorkspace = `# workspace layout
packages:
  - packages/*
  - apps/*

catalog:
  react: ^18.2.0

catalogs:
  # shared helpers
  utils:
    foo: ^1.0.0 # pinned for the monorepo
    '@antfu/utils': ^0.7.0
  test:
    vitest: ^1.6.0
    foo: ^1.1.0
`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse("pnpm-workspace.yaml", []byte(sampleWorkspace))
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectError bool
		validate    func(t *testing.T, doc *Document)
	}{
		{
			name:    "full document",
			content: sampleWorkspace,
			validate: func(t *testing.T, doc *Document) {
				assert.Equal(t, []string{"default", "test", "utils"}, doc.Names())
			},
		},
		{
			name:    "default content",
			content: "packages: []",
			validate: func(t *testing.T, doc *Document) {
				assert.Empty(t, doc.Names())
			},
		},
		{
			name:    "empty file",
			content: "",
			validate: func(t *testing.T, doc *Document) {
				assert.Empty(t, doc.Names())
			},
		},
		{
			name:        "top level sequence",
			content:     "- a\n- b\n",
			expectError: true,
		},
		{
			name:        "invalid YAML",
			content:     "packages: [\n",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse("pnpm-workspace.yaml", []byte(tc.content))
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.validate(t, doc)
		})
	}
}

func TestPackageCatalogs(t *testing.T) {
	doc := parseSample(t)

	assert.Equal(t, []string{"utils", "test"}, doc.PackageCatalogs("foo"))
	assert.Equal(t, []string{"default"}, doc.PackageCatalogs("react"))
	assert.Equal(t, []string{"utils"}, doc.PackageCatalogs("@antfu/utils"))
	assert.Empty(t, doc.PackageCatalogs("left-pad"))
}

func TestPackageCatalogsDefaultUnderCatalogs(t *testing.T) {
	doc, err := Parse("pnpm-workspace.yaml", []byte("catalog:\n  a: ^1.0.0\ncatalogs:\n  default:\n    a: ^1.0.0\n    b: ^2.0.0\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"default"}, doc.PackageCatalogs("a"))
	assert.Equal(t, []string{"default"}, doc.PackageCatalogs("b"))
	assert.Equal(t, []string{"default"}, doc.Names())

	spec, ok := doc.Lookup("default", "b")
	assert.True(t, ok)
	assert.Equal(t, "^2.0.0", spec)
}

func TestLookup(t *testing.T) {
	doc := parseSample(t)

	testCases := []struct {
		catalog  string
		pkg      string
		expected string
		found    bool
	}{
		{"default", "react", "^18.2.0", true},
		{"utils", "foo", "^1.0.0", true},
		{"test", "foo", "^1.1.0", true},
		{"utils", "@antfu/utils", "^0.7.0", true},
		{"utils", "react", "", false},
		{"missing", "foo", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.catalog+"/"+tc.pkg, func(t *testing.T) {
			spec, ok := doc.Lookup(tc.catalog, tc.pkg)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, spec)
		})
	}
}

func TestSetPackage(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		catalog  string
		pkg      string
		spec     string
		validate func(t *testing.T, out string, doc *Document)
	}{
		{
			name:    "new named catalog in default document",
			content: "packages: []",
			catalog: "frontend",
			pkg:     "vue",
			spec:    "^3.4.0",
			validate: func(t *testing.T, out string, doc *Document) {
				assert.Equal(t, "packages: []\ncatalogs:\n  frontend:\n    vue: ^3.4.0\n", out)
			},
		},
		{
			name:    "default catalog created at top level",
			content: "packages: []",
			catalog: "default",
			pkg:     "react",
			spec:    "^18.2.0",
			validate: func(t *testing.T, out string, doc *Document) {
				assert.Equal(t, "packages: []\ncatalog:\n  react: ^18.2.0\n", out)
			},
		},
		{
			name:    "update existing entry keeps comments",
			content: sampleWorkspace,
			catalog: "utils",
			pkg:     "foo",
			spec:    "^2.0.0",
			validate: func(t *testing.T, out string, doc *Document) {
				assert.Contains(t, out, "# workspace layout")
				assert.Contains(t, out, "# shared helpers")
				assert.Contains(t, out, "foo: ^2.0.0 # pinned for the monorepo")
				spec, _ := doc.Lookup("test", "foo")
				assert.Equal(t, "^1.1.0", spec)
			},
		},
		{
			name:    "scoped name is quoted",
			content: "packages: []",
			catalog: "types",
			pkg:     "@types/node",
			spec:    "^20.0.0",
			validate: func(t *testing.T, out string, doc *Document) {
				assert.Contains(t, out, `'@types/node': ^20.0.0`)
			},
		},
		{
			name:    "wildcard specifier is quoted",
			content: "packages: []",
			catalog: "default",
			pkg:     "foo",
			spec:    "*",
			validate: func(t *testing.T, out string, doc *Document) {
				spec, ok := doc.Lookup("default", "foo")
				assert.True(t, ok)
				assert.Equal(t, "*", spec)
			},
		},
		{
			name:    "null catalogs value becomes mapping",
			content: "packages: []\ncatalogs:\n",
			catalog: "utils",
			pkg:     "foo",
			spec:    "^1.0.0",
			validate: func(t *testing.T, out string, doc *Document) {
				assert.Equal(t, []string{"utils"}, doc.PackageCatalogs("foo"))
			},
		},
		{
			name:    "empty flow mapping becomes block",
			content: "catalog: {}\n",
			catalog: "default",
			pkg:     "foo",
			spec:    "^1.0.0",
			validate: func(t *testing.T, out string, doc *Document) {
				assert.Equal(t, "catalog:\n  foo: ^1.0.0\n", out)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse("pnpm-workspace.yaml", []byte(tc.content))
			require.NoError(t, err)

			doc.SetPackage(tc.catalog, tc.pkg, tc.spec)

			out, err := doc.Bytes()
			require.NoError(t, err)

			reparsed, err := Parse("pnpm-workspace.yaml", out)
			require.NoError(t, err)
			spec, ok := reparsed.Lookup(tc.catalog, tc.pkg)
			assert.True(t, ok)
			assert.Equal(t, tc.spec, spec)

			tc.validate(t, string(out), reparsed)
		})
	}
}

func TestNewDefaultAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnpm-workspace.yaml")

	doc, err := NewDefault(path, "packages: []")
	require.NoError(t, err)
	assert.NoFileExists(t, path, "nothing is written before Save")
	data, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "packages: []\n", string(data))

	doc.SetPackage("utils", "foo", "^1.0.0")
	require.NoError(t, doc.Save())

	_, err = NewDefault(path, "packages: []")
	assert.Error(t, err, "existing file must not be replaced")

	loaded, err := Load(path)
	require.NoError(t, err)
	spec, ok := loaded.Lookup("utils", "foo")
	assert.True(t, ok)
	assert.Equal(t, "^1.0.0", spec)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "pnpm-workspace.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
