package registry

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\d+(\.\d+)+(-[0-9A-Za-z.]+)?`)

// Version extracts the last version-looking part of a schema name, as in
// "sdl-schema-2.5.0".
func Version(name string) (*semver.Version, bool) {
	found := versionPattern.FindAllString(name, -1)
	if len(found) == 0 {
		return nil, false
	}
	v, err := semver.NewVersion(found[len(found)-1])
	if err != nil {
		return nil, false
	}
	return v, true
}

// Sort returns names newest first. Versioned names come before the others
// and compare by version; everything else falls back to reverse string order.
func Sort(names []string) []string {
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int { return compareNames(b, a) })
	return out
}

func compareNames(a, b string) int {
	va, okA := Version(a)
	vb, okB := Version(b)
	switch {
	case okA && okB:
		if c := va.Compare(vb); c != 0 {
			return c
		}
	case okA:
		return 1
	case okB:
		return -1
	}
	return strings.Compare(a, b)
}
