package catalog

import (
	"context"
	"fmt"

	"github.com/ernesto27/go-nip/args"
	"github.com/ernesto27/go-nip/pkgspec"
	"github.com/ernesto27/go-nip/prompt"
	"github.com/ernesto27/go-nip/version"
)

// NewCatalogValue is the select value that asks for a catalog name instead.
const NewCatalogValue = "*"

// Catalogs is read access to the workspace catalog tables.
type Catalogs interface {
	PackageCatalogs(name string) []string
	Lookup(catalog, name string) (string, bool)
	Names() []string
}

type Registry interface {
	Latest(ctx context.Context, name string) (string, error)
}

type Prompter interface {
	Select(ctx context.Context, message string, options []prompt.Option) (string, error)
	Text(ctx context.Context, message string) (string, error)
}

type Spinner interface {
	Start(msg string)
	Stop(msg string)
}

// ResolveError names the package whose resolution failed.
type ResolveError struct {
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolver fills in the catalog and specifier of requested packages.
// It keeps the last selected catalog between prompts, so use one per run.
type Resolver struct {
	catalogs     Catalogs
	registry     Registry
	prompter     Prompter
	spinner      Spinner
	version      *version.Info
	lastSelected string
}

func New(catalogs Catalogs, registry Registry, prompter Prompter, spinner Spinner) *Resolver {
	if spinner == nil {
		spinner = noopSpinner{}
	}
	return &Resolver{
		catalogs: catalogs,
		registry: registry,
		prompter: prompter,
		spinner:  spinner,
		version:  version.New(),
	}
}

// Resolve runs the per-package rules for every spec in order, then asks for a
// catalog for every spec still without one. It stops at the first failure.
func (r *Resolver) Resolve(ctx context.Context, specs []*pkgspec.ParsedSpec, flag args.CatalogFlag) error {
	for _, spec := range specs {
		if err := r.ResolveOne(ctx, spec, flag.Effective()); err != nil {
			return err
		}
	}
	return r.SelectMissing(ctx, specs)
}

// ResolveOne applies the rules to a single spec; the first rule that fills a
// field wins. explicit is the catalog given on the command line, if any.
func (r *Resolver) ResolveOne(ctx context.Context, spec *pkgspec.ParsedSpec, explicit string) error {
	if explicit != "" {
		spec.SetCatalog(explicit)
	}

	if spec.HasSpecifier() {
		spec.SetSource(pkgspec.SourceUser)
		return nil
	}

	if spec.Catalog == "" {
		if found := r.catalogs.PackageCatalogs(spec.Name); len(found) > 0 {
			spec.SetCatalog(found[0])
			spec.SetSource(pkgspec.SourceCatalog)
		}
	}

	if spec.Catalog != "" {
		if specifier, ok := r.catalogs.Lookup(spec.Catalog, spec.Name); ok && specifier != "" {
			spec.Specifier = specifier
			spec.SetSource(pkgspec.SourceCatalog)
		}
	}

	if spec.HasSpecifier() {
		return nil
	}
	return r.fromRegistry(ctx, spec)
}

func (r *Resolver) fromRegistry(ctx context.Context, spec *pkgspec.ParsedSpec) error {
	r.spinner.Start(fmt.Sprintf("resolving %s from npm...", spec.Name))

	latest, err := r.registry.Latest(ctx, spec.Name)
	if err == nil {
		spec.Specifier, err = r.version.Caret(latest)
	}
	if err != nil {
		r.spinner.Stop(fmt.Sprintf("failed to resolve %s from npm", spec.Name))
		return &ResolveError{Name: spec.Name, Err: err}
	}

	spec.SetSource(pkgspec.SourceNPM)
	r.spinner.Stop(fmt.Sprintf("resolved %s", spec))
	return nil
}

// SelectMissing prompts for a catalog for every spec that has none.
func (r *Resolver) SelectMissing(ctx context.Context, specs []*pkgspec.ParsedSpec) error {
	for _, spec := range specs {
		if spec.Catalog != "" {
			continue
		}
		name, err := r.selectCatalog(ctx, spec.Name)
		if err != nil {
			return &ResolveError{Name: spec.Name, Err: err}
		}
		spec.Catalog = name
		r.lastSelected = name
	}
	return nil
}

func (r *Resolver) selectCatalog(ctx context.Context, pkg string) (string, error) {
	choice, err := r.prompter.Select(ctx, fmt.Sprintf("select catalog for %s", pkg), r.Options())
	if err != nil {
		return "", err
	}
	if choice == "" {
		return "", prompt.ErrCancelled
	}
	if choice != NewCatalogValue {
		return choice, nil
	}

	name, err := r.prompter.Text(ctx, fmt.Sprintf("enter catalog name for %s", pkg))
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", prompt.ErrCancelled
	}
	return name, nil
}

// Options lists the choices of the catalog prompt: the last selected catalog,
// the declared catalogs, then an entry for a new one.
func (r *Resolver) Options() []prompt.Option {
	var opts []prompt.Option
	if r.lastSelected != "" {
		opts = append(opts, prompt.Option{Label: r.lastSelected, Value: r.lastSelected, Hint: "(last selected)"})
	}
	for _, name := range r.catalogs.Names() {
		if name == r.lastSelected {
			continue
		}
		opts = append(opts, prompt.Option{Label: name, Value: name})
	}
	return append(opts, prompt.Option{Label: "<new catalog>", Value: NewCatalogValue})
}

type noopSpinner struct{}

func (noopSpinner) Start(string) {}
func (noopSpinner) Stop(string)  {}
