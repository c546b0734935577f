package pkgspec

import "strings"

// Source records which resolution step supplied a specifier.
type Source string

const (
	SourceUser      Source = "user"
	SourceCatalog   Source = "catalog"
	SourceWorkspace Source = "workspace"
	SourceNPM       Source = "npm"
)

// ParsedSpec is a package requested on the command line. Empty fields are unset.
type ParsedSpec struct {
	Name            string
	Specifier       string
	Catalog         string
	SpecifierSource Source
}

// Parse splits a trimmed token such as "name", "name@range", "@scope/name" or
// "@scope/name@range" into its name and specifier.
// Segments after the specifier are dropped, and a trailing "@" yields no specifier.
func Parse(raw string) ParsedSpec {
	parts := strings.Split(raw, "@")

	var spec ParsedSpec
	if parts[0] == "" && len(parts) > 1 {
		// @scope/name
		spec.Name = "@" + parts[1]
		if len(parts) > 2 {
			spec.Specifier = parts[2]
		}
		return spec
	}

	spec.Name = parts[0]
	if len(parts) > 1 {
		spec.Specifier = parts[1]
	}
	return spec
}

// ParseAll trims every token, skips blank ones and parses the rest in order.
func ParseAll(tokens []string) []*ParsedSpec {
	specs := make([]*ParsedSpec, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		spec := Parse(token)
		specs = append(specs, &spec)
	}
	return specs
}

// SetSource marks the provenance unless an earlier step already did.
func (s *ParsedSpec) SetSource(src Source) {
	if s.SpecifierSource == "" {
		s.SpecifierSource = src
	}
}

// SetCatalog assigns a catalog unless one is already set.
func (s *ParsedSpec) SetCatalog(name string) {
	if s.Catalog == "" {
		s.Catalog = name
	}
}

func (s *ParsedSpec) HasSpecifier() bool {
	return s.Specifier != ""
}

// SpecifierOr returns the specifier, or def when none was resolved.
func (s *ParsedSpec) SpecifierOr(def string) string {
	if s.Specifier == "" {
		return def
	}
	return s.Specifier
}

func (s ParsedSpec) String() string {
	if s.Specifier == "" {
		return s.Name
	}
	return s.Name + "@" + s.Specifier
}
