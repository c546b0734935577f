package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	NPMRegistryURL = "https://registry.npmjs.org/"

	PackageJSONName   = "package.json"
	WorkspaceYAMLName = "pnpm-workspace.yaml"
	PNPMLockName      = "pnpm-lock.yaml"

	// ExpectedAgent is the package manager catalogs belong to.
	ExpectedAgent = "pnpm"

	DefaultSpecifier        = "^0.0.0"
	DefaultWorkspaceContent = "packages: []"
)

type Config struct {
	// Directory the command was started in
	Cwd string

	RegistryURL string

	ExpectedAgent    string
	DefaultSpecifier string

	// Markers of a project root, used when pnpm-workspace.yaml must be created
	RootMarkers []string
}

func New() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return &Config{
		Cwd:              cwd,
		RegistryURL:      registryFromEnv(),
		ExpectedAgent:    ExpectedAgent,
		DefaultSpecifier: DefaultSpecifier,
		RootMarkers:      []string{".git", PNPMLockName},
	}, nil
}

// registryFromEnv honours the npm registry override, in either casing npm accepts.
func registryFromEnv() string {
	for _, key := range []string{"NPM_CONFIG_REGISTRY", "npm_config_registry"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			if !strings.HasSuffix(v, "/") {
				v += "/"
			}
			return v
		}
	}
	return NPMRegistryURL
}
