package version

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type Info struct {
}

func New() *Info {
	return &Info{}
}

// Latest picks the version "latest" should mean for a package. A valid
// latest dist-tag wins; otherwise the highest stable version is used, and
// prereleases only when nothing stable was published.
func (v *Info) Latest(distTagLatest string, versions []string) (string, bool) {
	if distTagLatest != "" {
		if _, err := semver.NewVersion(distTagLatest); err == nil {
			return distTagLatest, true
		}
	}

	var stable, pre []*semver.Version
	for _, vStr := range versions {
		semverVersion, err := semver.NewVersion(vStr)
		if err != nil {
			continue // Skip invalid versions in registry
		}
		if semverVersion.Prerelease() == "" {
			stable = append(stable, semverVersion)
		} else {
			pre = append(pre, semverVersion)
		}
	}

	candidates := stable
	if len(candidates) == 0 {
		candidates = pre
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Sort(semver.Collection(candidates))
	return strings.TrimPrefix(candidates[len(candidates)-1].Original(), "v"), true
}

// Caret turns a published version into the "^x.y.z" range written to manifests.
func (v *Info) Caret(version string) (string, error) {
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}
	return "^" + strings.TrimPrefix(parsed.Original(), "v"), nil
}
