// Package version models crate versions: either "latest" or a concrete
// semver release.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a crate version value. The zero value is Latest.
type Version struct {
	v string // empty for latest, otherwise a valid semver without "v"
}

// Latest selects whatever release the documentation host currently serves.
var Latest = Version{}

// Parse accepts "latest" (or the empty string) and semver strings.
func Parse(s string) (Version, error) {
	if s == "" || s == "latest" {
		return Latest, nil
	}
	if !semver.IsValid("v" + s) {
		return Version{}, fmt.Errorf("invalid semantic version %q", s)
	}
	return Version{v: s}, nil
}

// MustParse is Parse for trusted literals; it panics on invalid input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) IsLatest() bool { return v.v == "" }

// String renders the form used in docs.rs URL paths.
func (v Version) String() string {
	if v.v == "" {
		return "latest"
	}
	return v.v
}

// Compare orders two versions; Latest sorts after every concrete release.
func Compare(a, b Version) int {
	switch {
	case a.v == b.v:
		return 0
	case a.v == "":
		return 1
	case b.v == "":
		return -1
	}
	return semver.Compare("v"+a.v, "v"+b.v)
}

// FromIndexFile extracts the version from a stdlib search index file name
// of the form "search-index<version>.js".
func FromIndexFile(name string) (Version, error) {
	rest, ok := strings.CutPrefix(name, "search-index")
	if !ok {
		return Version{}, fmt.Errorf("index file %q does not start with search-index", name)
	}
	rest, ok = strings.CutSuffix(rest, ".js")
	if !ok {
		return Version{}, fmt.Errorf("index file %q does not end with .js", name)
	}
	rest = strings.TrimPrefix(rest, "-")
	return Parse(rest)
}
