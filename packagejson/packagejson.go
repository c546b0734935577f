package packagejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	Dependencies    = "dependencies"
	DevDependencies = "devDependencies"
)

// Tables returns the table a dependency is written to and the one it must be
// removed from.
func Tables(dev bool) (target, opposite string) {
	if dev {
		return DevDependencies, Dependencies
	}
	return Dependencies, DevDependencies
}

// File is a package.json kept as raw JSON so unrelated content and key order
// survive edits.
type File struct {
	Path    string
	content string
}

func Load(filePath string) (*File, error) {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return Parse(filePath, fileContent)
}

func Parse(filePath string, data []byte) (*File, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse JSON from file %s: invalid JSON", filePath)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("failed to parse JSON from file %s: top level value is not an object", filePath)
	}

	return &File{Path: filePath, content: string(data)}, nil
}

// PackageManager returns the "packageManager" field, e.g. "pnpm@9.1.0".
func (f *File) PackageManager() string {
	return gjson.Get(f.content, "packageManager").String()
}

func (f *File) HasDependency(table, name string) bool {
	return gjson.Get(f.content, depPath(table, name)).Exists()
}

// SetDependency inserts or overwrites name in table, creating the table when missing.
func (f *File) SetDependency(table, name, specifier string) error {
	if t := gjson.Get(f.content, escapePath(table)); t.Exists() && !t.IsObject() {
		return fmt.Errorf("%s in %s is not an object", table, f.Path)
	}

	updated, err := sjson.Set(f.content, depPath(table, name), specifier)
	if err != nil {
		return fmt.Errorf("failed to update dependency %s: %w", name, err)
	}
	f.content = updated
	return nil
}

// DeleteDependency removes name from table. Missing keys are not an error.
func (f *File) DeleteDependency(table, name string) error {
	if !f.HasDependency(table, name) {
		return nil
	}

	updated, err := sjson.Delete(f.content, depPath(table, name))
	if err != nil {
		return fmt.Errorf("failed to remove dependency %s from %s: %w", name, table, err)
	}
	f.content = updated
	return nil
}

// Bytes renders the document with two-space indentation and a trailing newline.
func (f *File) Bytes() ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(f.content)); err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", f.Path, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", f.Path, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (f *File) Save() error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", f.Path, err)
	}
	return nil
}

func depPath(table, name string) string {
	return escapePath(table) + "." + escapePath(name)
}

// escapePath makes a key safe to use as a single gjson/sjson path component.
func escapePath(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '\\', '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteByte(key[i])
	}
	return b.String()
}
