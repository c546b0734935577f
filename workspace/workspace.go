package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultCatalog addresses the unnamed top-level "catalog" table.
const DefaultCatalog = "default"

const (
	keyCatalog  = "catalog"
	keyCatalogs = "catalogs"
)

// Document is an editable pnpm-workspace.yaml. It works on the node tree so
// comments and key order are kept when the file is written back.
type Document struct {
	Path string
	root *yaml.Node
}

// Load reads and parses the workspace file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse builds a Document from YAML content. An empty file is an empty mapping.
func Parse(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML from file %s: %w", path, err)
	}

	if root.Kind == 0 {
		root = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{newMapping()},
		}
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("failed to parse YAML from file %s: top level value is not a mapping", path)
	}

	return &Document{Path: path, root: &root}, nil
}

// NewDefault returns an unsaved document for a workspace file that does not
// exist yet. Save creates the file.
func NewDefault(path, content string) (*Document, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return Parse(path, []byte(content))
}

func (d *Document) top() *yaml.Node {
	return d.root.Content[0]
}

// Names lists every declared catalog, sorted. The unnamed catalog is "default".
func (d *Document) Names() []string {
	seen := make(map[string]bool)
	if m := lookup(d.top(), keyCatalog); isMapping(m) {
		seen[DefaultCatalog] = true
	}
	forEachNamedCatalog(d.top(), func(name string, _ *yaml.Node) {
		seen[name] = true
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PackageCatalogs returns the catalogs that already pin name, the unnamed
// catalog first and then named catalogs in file order.
func (d *Document) PackageCatalogs(name string) []string {
	var result []string
	if m := lookup(d.top(), keyCatalog); isMapping(m) && lookup(m, name) != nil {
		result = append(result, DefaultCatalog)
	}
	forEachNamedCatalog(d.top(), func(catalog string, entries *yaml.Node) {
		if catalog == DefaultCatalog && len(result) > 0 && result[0] == DefaultCatalog {
			return
		}
		if lookup(entries, name) != nil {
			result = append(result, catalog)
		}
	})
	return result
}

// Lookup returns the specifier pinned for name in catalog.
func (d *Document) Lookup(catalog, name string) (string, bool) {
	for _, m := range d.catalogTables(catalog) {
		if v := lookup(m, name); v != nil && v.Kind == yaml.ScalarNode && v.Value != "" {
			return v.Value, true
		}
	}
	return "", false
}

// SetPackage pins name to specifier in catalog, creating tables as needed.
func (d *Document) SetPackage(catalog, name, specifier string) {
	var table *yaml.Node
	if catalog == DefaultCatalog {
		table = d.defaultTable()
	} else {
		catalogs := ensureMapping(d.top(), keyCatalogs)
		table = ensureMapping(catalogs, catalog)
	}
	setScalar(table, name, specifier)
}

// defaultTable picks "catalog" unless only "catalogs.default" exists.
func (d *Document) defaultTable() *yaml.Node {
	if m := lookup(d.top(), keyCatalog); isMapping(m) {
		return m
	}
	if cs := lookup(d.top(), keyCatalogs); isMapping(cs) {
		if m := lookup(cs, DefaultCatalog); isMapping(m) {
			return m
		}
	}
	return ensureMapping(d.top(), keyCatalog)
}

func (d *Document) catalogTables(catalog string) []*yaml.Node {
	var tables []*yaml.Node
	if catalog == DefaultCatalog {
		if m := lookup(d.top(), keyCatalog); isMapping(m) {
			tables = append(tables, m)
		}
	}
	if cs := lookup(d.top(), keyCatalogs); isMapping(cs) {
		if m := lookup(cs, catalog); isMapping(m) {
			tables = append(tables, m)
		}
	}
	return tables
}

// Bytes renders the document as YAML with two-space indentation.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Path, err)
	}
	return buf.Bytes(), nil
}

func (d *Document) Save() error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(d.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", d.Path, err)
	}
	return nil
}

func forEachNamedCatalog(top *yaml.Node, fn func(name string, entries *yaml.Node)) {
	cs := lookup(top, keyCatalogs)
	if !isMapping(cs) {
		return
	}
	for i := 0; i+1 < len(cs.Content); i += 2 {
		if isMapping(cs.Content[i+1]) {
			fn(cs.Content[i].Value, cs.Content[i+1])
		}
	}
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	if !isMapping(m) {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func isMapping(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.MappingNode
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// ensureMapping returns the mapping stored under key, replacing a null or
// scalar value with an empty mapping.
func ensureMapping(parent *yaml.Node, key string) *yaml.Node {
	if v := lookup(parent, key); v != nil {
		if v.Kind != yaml.MappingNode {
			*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", LineComment: v.LineComment}
		}
		return v
	}

	m := newMapping()
	appendPair(parent, key, m)
	return m
}

func setScalar(m *yaml.Node, key, value string) {
	if v := lookup(m, key); v != nil {
		if v.Kind != yaml.ScalarNode {
			*v = yaml.Node{}
		}
		v.SetString(value)
		return
	}

	v := &yaml.Node{}
	v.SetString(value)
	appendPair(m, key, v)
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	// an empty flow mapping ("{}") would otherwise stay on one line
	if len(m.Content) == 0 {
		m.Style &^= yaml.FlowStyle
	}
	k := &yaml.Node{}
	k.SetString(key)
	m.Content = append(m.Content, k, value)
}
