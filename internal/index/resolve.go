package index

import (
	"strings"

	"github.com/jcdickinson/rsdoclink/internal/simplepath"
)

// OutcomeKind classifies a resolution result. NotFound is a normal outcome,
// not an error: most real-world inputs are typos or private items.
type OutcomeKind uint8

const (
	OutcomeNotFound OutcomeKind = iota
	OutcomeCrateRoot
	OutcomeFound
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCrateRoot:
		return "CrateRoot"
	case OutcomeFound:
		return "Found"
	}
	return "NotFound"
}

// Outcome is the result of resolving a simple path against a crate index.
type Outcome struct {
	Kind OutcomeKind
	// Crate is the lib name of the crate the path was resolved against.
	Crate string
	// Item and ItemIndex identify the resolved item when Kind is
	// OutcomeFound; Item points into the crate's own item list.
	Item      *Item
	ItemIndex int
}

// Resolve matches a parsed path against a decoded crate. Matching is exact
// and case sensitive, segment by segment: an item matches when its module
// path, owner segment (for associated items) and name account for exactly
// the requested segments. When several items share a joined path the
// earliest in decode order wins, which keeps resolution deterministic
// across runs.
//
// A path of just the crate name resolves to the crate root rather than
// failing, since the crate's landing page is a valid target.
func Resolve(c *Crate, path simplepath.Path) Outcome {
	if path.IsCrateOnly() {
		return Outcome{Kind: OutcomeCrateRoot, Crate: c.Name}
	}

	want := path.Names()
	for i := range c.Index.Items {
		if matchesSegments(&c.Index, i, want) {
			return Outcome{
				Kind:      OutcomeFound,
				Crate:     c.Name,
				Item:      &c.Index.Items[i],
				ItemIndex: i,
			}
		}
	}
	return Outcome{Kind: OutcomeNotFound, Crate: c.Name}
}

// matchesSegments compares item i's joined path against the requested
// segments without allocating the joined form.
func matchesSegments(x *Index, i int, want []string) bool {
	it := &x.Items[i]
	if it.Name == "" || it.Name != want[len(want)-1] {
		return false
	}

	mod := want[:len(want)-1]
	if owner, ok := x.OwnerName(it); ok {
		if len(mod) == 0 || owner != mod[len(mod)-1] {
			return false
		}
		mod = mod[:len(mod)-1]
	}

	return it.ModulePath == strings.Join(mod, "::")
}
