package detect

import (
	"path/filepath"
	"strings"

	"github.com/ernesto27/go-nip/config"
	"github.com/ernesto27/go-nip/packagejson"
	"github.com/ernesto27/go-nip/utils"
)

// Agent is a detected package manager. The zero value means none was found.
type Agent struct {
	Name    string
	Version string
	// What gave it away: a lock file path or a package.json path
	Source string
}

func (a Agent) Found() bool {
	return a.Name != ""
}

func (a Agent) String() string {
	if a.Version == "" {
		return a.Name
	}
	return a.Name + "@" + a.Version
}

var lockFiles = []struct {
	file  string
	agent string
}{
	{config.PNPMLockName, "pnpm"},
	{"yarn.lock", "yarn"},
	{"package-lock.json", "npm"},
	{"npm-shrinkwrap.json", "npm"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"deno.lock", "deno"},
}

var knownAgents = map[string]bool{
	"pnpm": true,
	"yarn": true,
	"npm":  true,
	"bun":  true,
	"deno": true,
}

// Detect walks up from dir. In each directory a lock file is checked first,
// then the "packageManager" field of package.json.
func Detect(dir string) Agent {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Agent{}
	}

	for {
		for _, lf := range lockFiles {
			path := filepath.Join(dir, lf.file)
			if utils.FileExists(path) {
				return Agent{Name: lf.agent, Source: path}
			}
		}

		if agent, ok := fromPackageJSON(filepath.Join(dir, config.PackageJSONName)); ok {
			return agent
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Agent{}
		}
		dir = parent
	}
}

func fromPackageJSON(path string) (Agent, bool) {
	if !utils.FileExists(path) {
		return Agent{}, false
	}
	f, err := packagejson.Load(path)
	if err != nil {
		return Agent{}, false
	}

	agent, ok := ParsePackageManager(f.PackageManager())
	if !ok {
		return Agent{}, false
	}
	agent.Source = path
	return agent, true
}

// ParsePackageManager reads a "packageManager" value such as
// "pnpm@9.1.0+sha512.abc".
func ParsePackageManager(value string) (Agent, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Agent{}, false
	}

	name, ver, _ := strings.Cut(value, "@")
	if !knownAgents[name] {
		return Agent{}, false
	}
	ver, _, _ = strings.Cut(ver, "+")
	return Agent{Name: name, Version: ver}, true
}
