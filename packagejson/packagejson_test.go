package packagejson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackageJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		setupFile   func(t *testing.T) string
		expectError bool
		validate    func(t *testing.T, f *File)
	}{
		{
			name: "valid package.json",
			setupFile: func(t *testing.T) string {
				return writePackageJSON(t, `{
  "name": "test-project",
  "packageManager": "pnpm@9.1.0",
  "dependencies": {
    "express": "^4.18.0",
    "@vue/reactivity": "catalog:"
  }
}`)
			},
			validate: func(t *testing.T, f *File) {
				assert.Equal(t, "pnpm@9.1.0", f.PackageManager())
				assert.True(t, f.HasDependency(Dependencies, "express"))
				assert.True(t, f.HasDependency(Dependencies, "@vue/reactivity"))
				assert.False(t, f.HasDependency(DevDependencies, "express"))
			},
		},
		{
			name: "non-existent file",
			setupFile: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "package.json")
			},
			expectError: true,
		},
		{
			name: "invalid JSON",
			setupFile: func(t *testing.T) string {
				return writePackageJSON(t, `{"name": "test", "invalid": }`)
			},
			expectError: true,
		},
		{
			name: "top level array",
			setupFile: func(t *testing.T) string {
				return writePackageJSON(t, `[]`)
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Load(tc.setupFile(t))
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			tc.validate(t, f)
		})
	}
}

func TestSetAndDeleteDependency(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		dev      bool
		deps     map[string]string
		order    []string
		expected string
	}{
		{
			name: "adds to existing table and keeps key order",
			content: `{
  "name": "app",
  "version": "1.0.0",
  "dependencies": {
    "lodash": "^4.17.21"
  },
  "scripts": {
    "build": "tsc"
  }
}`,
			deps:  map[string]string{"react": "catalog:frontend"},
			order: []string{"react"},
			expected: `{
  "name": "app",
  "version": "1.0.0",
  "dependencies": {
    "lodash": "^4.17.21",
    "react": "catalog:frontend"
  },
  "scripts": {
    "build": "tsc"
  }
}
`,
		},
		{
			name:    "creates missing table",
			content: `{"name":"app"}`,
			dev:     true,
			deps:    map[string]string{"vitest": "catalog:test"},
			order:   []string{"vitest"},
			expected: `{
  "name": "app",
  "devDependencies": {
    "vitest": "catalog:test"
  }
}
`,
		},
		{
			name: "moves from dev to prod",
			content: `{
  "dependencies": {},
  "devDependencies": {
    "@types/node": "^20.0.0",
    "typescript": "^5.0.0"
  }
}`,
			deps:  map[string]string{"@types/node": "catalog:types"},
			order: []string{"@types/node"},
			expected: `{
  "dependencies": {
    "@types/node": "catalog:types"
  },
  "devDependencies": {
    "typescript": "^5.0.0"
  }
}
`,
		},
		{
			name:    "overwrites existing specifier",
			content: `{"dependencies":{"foo":"^1.0.0"}}`,
			deps:    map[string]string{"foo": "^2.0.0"},
			order:   []string{"foo"},
			expected: `{
  "dependencies": {
    "foo": "^2.0.0"
  }
}
`,
		},
		{
			name:    "names with dots are single keys",
			content: `{"dependencies":{}}`,
			deps:    map[string]string{"socket.io": "^4.7.0"},
			order:   []string{"socket.io"},
			expected: `{
  "dependencies": {
    "socket.io": "^4.7.0"
  }
}
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writePackageJSON(t, tc.content)
			f, err := Load(path)
			require.NoError(t, err)

			target, opposite := Tables(tc.dev)
			for _, name := range tc.order {
				require.NoError(t, f.SetDependency(target, name, tc.deps[name]))
				require.NoError(t, f.DeleteDependency(opposite, name))
			}

			require.NoError(t, f.Save())
			written, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(written))
		})
	}
}

func TestDependencyLookup(t *testing.T) {
	f, err := Parse("package.json", []byte(`{"devDependencies":{"@scope/pkg":"1.0.0"}}`))
	require.NoError(t, err)

	assert.True(t, f.HasDependency(DevDependencies, "@scope/pkg"))
	assert.False(t, f.HasDependency(Dependencies, "@scope/pkg"))
	assert.NoError(t, f.DeleteDependency(Dependencies, "@scope/pkg"))
}

func TestSetDependencyRejectsNonObjectTable(t *testing.T) {
	f, err := Parse("package.json", []byte(`{"dependencies":[]}`))
	require.NoError(t, err)

	assert.Error(t, f.SetDependency(Dependencies, "foo", "^1.0.0"))
}

func TestTables(t *testing.T) {
	target, opposite := Tables(false)
	assert.Equal(t, "dependencies", target)
	assert.Equal(t, "devDependencies", opposite)

	target, opposite = Tables(true)
	assert.Equal(t, "devDependencies", target)
	assert.Equal(t, "dependencies", opposite)
}
