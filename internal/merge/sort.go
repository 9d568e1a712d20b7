package merge

import (
	"slices"

	"github.com/gopatchy/springcfg/internal/discover"
	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/format"
)

// unknownProfileRank sorts documents for profiles outside the active
// list after all known profiles.
const unknownProfileRank = 999

type sortKey struct {
	test       int // main resources first, test resources override
	profile    int // base files first, profile-specific files override
	rank       int // position in the expanded active profile list
	properties int // properties files override same-profile yaml
	index      int // document position within its file
}

// SortForMerge orders documents by override precedence, lowest
// precedence first so a simple fold yields the effective result. The
// sort is stable, so documents with equal keys keep discovery order.
func SortForMerge(docs []*document.Document, profiles []string) []*document.Document {
	rank := map[string]int{}
	for i, p := range profiles {
		rank[p] = i
	}

	keyOf := func(doc *document.Document) sortKey {
		k := sortKey{index: doc.Index}

		if doc.Test {
			k.test = 1
		}

		if profile := discover.ProfileOf(doc.Path); profile != "" {
			k.profile = 1

			r, found := rank[profile]
			if !found {
				r = unknownProfileRank
			}
			k.rank = r
		}

		if format.Ext(doc.Path) == "properties" {
			k.properties = 1
		}

		return k
	}

	sorted := slices.Clone(docs)

	slices.SortStableFunc(sorted, func(a, b *document.Document) int {
		ka, kb := keyOf(a), keyOf(b)

		for _, d := range []int{
			ka.test - kb.test,
			ka.profile - kb.profile,
			ka.rank - kb.rank,
			ka.properties - kb.properties,
			ka.index - kb.index,
		} {
			if d != 0 {
				return d
			}
		}

		return 0
	})

	return sorted
}
