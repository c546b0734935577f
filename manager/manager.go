package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ernesto27/go-nip/args"
	"github.com/ernesto27/go-nip/catalog"
	"github.com/ernesto27/go-nip/config"
	"github.com/ernesto27/go-nip/detect"
	"github.com/ernesto27/go-nip/installer"
	"github.com/ernesto27/go-nip/list"
	"github.com/ernesto27/go-nip/packagejson"
	"github.com/ernesto27/go-nip/pkgspec"
	"github.com/ernesto27/go-nip/progress"
	"github.com/ernesto27/go-nip/prompt"
	"github.com/ernesto27/go-nip/registry"
	"github.com/ernesto27/go-nip/ui"
	"github.com/ernesto27/go-nip/utils"
	"github.com/ernesto27/go-nip/workspace"
)

var (
	ErrManifestNotFound  = errors.New("no package.json found")
	ErrWorkspaceNotFound = errors.New("no pnpm-workspace.yaml found")
	ErrAborted           = errors.New("aborted")
)

type Dependencies struct {
	Config   *config.Config
	Registry catalog.Registry
	Prompter prompt.Prompter
	Spinner  catalog.Spinner
	UI       *ui.UI
	// Detect finds the package manager in use for a directory
	Detect func(dir string) detect.Agent
	// NewDelegate returns the installer for agent, run from dir
	NewDelegate func(agent, dir string) installer.Delegate
	Version     string
}

func BuildDependencies(version string) (*Dependencies, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create config: %w", err)
	}

	return &Dependencies{
		Config:   cfg,
		Registry: registry.New(cfg.RegistryURL),
		Prompter: prompt.NewTerminal(os.Stdin, os.Stderr),
		Spinner:  progress.New(os.Stderr),
		UI:       ui.New(os.Stderr),
		Detect:   detect.Detect,
		NewDelegate: func(agent, dir string) installer.Delegate {
			return installer.NewExecDelegate(agent, dir)
		},
		Version: version,
	}, nil
}

type Manager struct {
	config      *config.Config
	registry    catalog.Registry
	prompter    prompt.Prompter
	spinner     catalog.Spinner
	ui          *ui.UI
	detect      func(dir string) detect.Agent
	newDelegate func(agent, dir string) installer.Delegate
	version     string
}

func New(deps *Dependencies) (*Manager, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("missing config")
	}

	m := &Manager{
		config:      deps.Config,
		registry:    deps.Registry,
		prompter:    deps.Prompter,
		spinner:     deps.Spinner,
		ui:          deps.UI,
		detect:      deps.Detect,
		newDelegate: deps.NewDelegate,
		version:     deps.Version,
	}
	if m.ui == nil {
		m.ui = ui.New(os.Stderr)
	}
	if m.detect == nil {
		m.detect = detect.Detect
	}
	if m.newDelegate == nil {
		m.newDelegate = func(agent, dir string) installer.Delegate {
			return installer.NewExecDelegate(agent, dir)
		}
	}
	return m, nil
}

// Add records the requested packages in package.json and the workspace
// catalogs, then runs the install. It returns the installer's exit status.
// Nothing is written unless every package was resolved and confirmed.
func (m *Manager) Add(ctx context.Context, a *args.Args) (int, error) {
	m.ui.Intro(fmt.Sprintf("nip v%s", m.version))

	agent := m.detect(m.config.Cwd)
	if agent.Found() && agent.Name != m.config.ExpectedAgent {
		m.ui.Warn("nip is designed to be used with %s, but used with %q", m.config.ExpectedAgent, agent.String())
		m.ui.Outro(fmt.Sprintf("falling back to %s", agent.Name))
		return m.newDelegate(agent.Name, m.config.Cwd).Execute(ctx, a.Raw)
	}

	specs := pkgspec.ParseAll(a.Names)
	if len(specs) == 0 || a.Catalog.Disabled() {
		m.ui.Outro(fmt.Sprintf("running full install with %s", m.config.ExpectedAgent))
		return m.install(ctx, a.Forward())
	}

	manifest, err := m.loadManifest(a.Workspace)
	if err != nil {
		return 1, err
	}

	ws, err := m.loadWorkspace(ctx)
	if err != nil {
		return 1, err
	}

	resolver := catalog.New(ws, m.registry, m.prompter, m.spinner)
	if err := resolver.Resolve(ctx, specs, a.Catalog); err != nil {
		return 1, err
	}

	m.ui.Note(fmt.Sprintf("install packages to %s", manifest.Path), list.New(specs, m.config.DefaultSpecifier).Render())

	if !a.Yes {
		ok, err := m.prompter.Confirm(ctx, "looks good?", true)
		if err != nil {
			return 1, err
		}
		if !ok {
			return 1, ErrAborted
		}
	}

	if err := m.apply(specs, ws, manifest, a.Dev); err != nil {
		return 1, err
	}
	if err := m.save(ws, manifest); err != nil {
		return 1, err
	}

	m.ui.Outro(fmt.Sprintf("running %s install", m.config.ExpectedAgent))
	return m.install(ctx, nil)
}

func (m *Manager) install(ctx context.Context, argv []string) (int, error) {
	return m.newDelegate(m.config.ExpectedAgent, m.config.Cwd).Execute(ctx, argv)
}

// loadManifest reads ./package.json when workspaceRoot is set, otherwise the
// nearest package.json above the working directory.
func (m *Manager) loadManifest(workspaceRoot bool) (*packagejson.File, error) {
	var path string
	if workspaceRoot {
		path = filepath.Join(m.config.Cwd, config.PackageJSONName)
		if !utils.FileExists(path) {
			return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, m.config.Cwd)
		}
	} else {
		found, ok := utils.FindUp(m.config.Cwd, config.PackageJSONName)
		if !ok {
			return nil, ErrManifestNotFound
		}
		path = found
	}

	return packagejson.Load(path)
}

// loadWorkspace finds pnpm-workspace.yaml. When there is none it offers to
// create one at the project root; the new document is only written by save.
func (m *Manager) loadWorkspace(ctx context.Context) (*workspace.Document, error) {
	if path, ok := utils.FindUp(m.config.Cwd, config.WorkspaceYAMLName); ok {
		return workspace.Load(path)
	}

	m.ui.Warn("No %s found", config.WorkspaceYAMLName)
	root := utils.FindRoot(m.config.Cwd, m.config.Cwd, m.config.RootMarkers...)
	ok, err := m.prompter.Confirm(ctx, fmt.Sprintf("do you want to create it under project root %s ?", root), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWorkspaceNotFound
	}

	return workspace.NewDefault(filepath.Join(root, config.WorkspaceYAMLName), config.DefaultWorkspaceContent)
}

// apply updates both documents in memory.
func (m *Manager) apply(specs []*pkgspec.ParsedSpec, ws *workspace.Document, manifest *packagejson.File, dev bool) error {
	for _, s := range specs {
		if s.Catalog != "" {
			ws.SetPackage(s.Catalog, s.Name, s.SpecifierOr(m.config.DefaultSpecifier))
		}
	}

	target, opposite := packagejson.Tables(dev)
	for _, s := range specs {
		value := s.SpecifierOr(m.config.DefaultSpecifier)
		if s.Catalog != "" {
			value = "catalog:" + s.Catalog
		}
		if err := manifest.SetDependency(target, s.Name, value); err != nil {
			return err
		}
		if err := manifest.DeleteDependency(opposite, s.Name); err != nil {
			return err
		}
	}
	return nil
}

// save checks that both files render before writing either of them.
func (m *Manager) save(ws *workspace.Document, manifest *packagejson.File) error {
	if _, err := ws.Bytes(); err != nil {
		return err
	}
	if _, err := manifest.Bytes(); err != nil {
		return err
	}

	m.ui.Info("writing %s", config.WorkspaceYAMLName)
	if err := ws.Save(); err != nil {
		return err
	}
	m.ui.Info("writing %s", config.PackageJSONName)
	if err := manifest.Save(); err != nil {
		return err
	}
	m.ui.Success("done")
	return nil
}
