// Package merge folds ordered document lists into a single value tree,
// tracking which file and line supplied each value.
package merge

import (
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/pkg/log"
)

// SourceMap records the winning source per leaf path. Sequences are
// atomic: one entry at the sequence path, none for its elements.
type SourceMap map[string]document.Source

// Merge folds documents in order into one tree. Mappings merge key by
// key; scalars and sequences replace. Later documents win.
func Merge(docs []*document.Document) (*document.Mapping, SourceMap) {
	result := document.NewMapping()
	sources := SourceMap{}

	for _, doc := range docs {
		log.Debugf("merging %s", doc)
		mergeMapping(result, doc.Content, "", doc, sources)
	}

	return result, sources
}

func mergeMapping(dst, src *document.Mapping, path string, doc *document.Document, sources SourceMap) {
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		childPath := document.ChildPath(path, pair.Key)
		existing, found := dst.Get(pair.Key)

		srcMap, srcIsMap := pair.Value.(*document.Mapping)

		if srcIsMap {
			if dstMap, ok := existing.(*document.Mapping); found && ok {
				mergeMapping(dstMap, srcMap, childPath, doc, sources)
				continue
			}

			if found {
				// Leaf replaced by a mapping; its old provenance no
				// longer applies
				sources.purge(childPath)
			}

			clone := document.DeepClone(srcMap)
			dst.Set(pair.Key, clone)

			document.WalkLeaves(clone, childPath, func(leafPath string, _ any) {
				sources[leafPath] = doc.SourceAt(leafPath)
			})

			continue
		}

		if _, ok := existing.(*document.Mapping); found && ok {
			// Mapping replaced by a leaf; drop provenance for the
			// subtree it shadowed
			sources.purge(childPath)
		}

		dst.Set(pair.Key, document.DeepClone(pair.Value))
		sources[childPath] = doc.SourceAt(childPath)
	}
}

func (s SourceMap) purge(prefix string) {
	delete(s, prefix)

	for p := range s {
		if strings.HasPrefix(p, prefix+".") || strings.HasPrefix(p, prefix+"[") {
			delete(s, p)
		}
	}
}
