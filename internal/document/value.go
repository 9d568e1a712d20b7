// Package document defines the parsed configuration value tree and its
// source identity. Mappings preserve insertion order so that merged
// output keeps the author's key ordering.
package document

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is an insertion-ordered map of string keys to configuration
// values. Values are *Mapping, []any, or scalars
// (string/bool/int/int64/float64/nil).
type Mapping = orderedmap.OrderedMap[string, any]

func NewMapping() *Mapping {
	return orderedmap.New[string, any]()
}

// IsScalar reports whether v is a leaf value (not a mapping or sequence).
func IsScalar(v any) bool {
	switch v.(type) {
	case *Mapping, []any:
		return false
	default:
		return true
	}
}

// DeepClone returns a fully independent copy of a value tree.
func DeepClone(v any) any {
	switch v2 := v.(type) {
	case *Mapping:
		ret := NewMapping()
		for pair := v2.Oldest(); pair != nil; pair = pair.Next() {
			ret.Set(pair.Key, DeepClone(pair.Value))
		}
		return ret

	case []any:
		ret := make([]any, len(v2))
		for i, item := range v2 {
			ret[i] = DeepClone(item)
		}
		return ret

	default:
		return v2
	}
}

// FromAny converts plain decoded trees (map[string]any from
// encoding/json and friends) into the ordered representation. Plain map
// keys are sorted for determinism since their original order is gone.
func FromAny(v any) any {
	switch v2 := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v2))
		for k := range v2 {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ret := NewMapping()
		for _, k := range keys {
			ret.Set(k, FromAny(v2[k]))
		}
		return ret

	case []any:
		ret := make([]any, len(v2))
		for i, item := range v2 {
			ret[i] = FromAny(item)
		}
		return ret

	default:
		return v2
	}
}

// ToPlain converts a value tree back to plain maps and slices, for
// encoders that do not understand ordered mappings.
func ToPlain(v any) any {
	switch v2 := v.(type) {
	case *Mapping:
		ret := map[string]any{}
		for pair := v2.Oldest(); pair != nil; pair = pair.Next() {
			ret[pair.Key] = ToPlain(pair.Value)
		}
		return ret

	case []any:
		ret := make([]any, len(v2))
		for i, item := range v2 {
			ret[i] = ToPlain(item)
		}
		return ret

	default:
		return v2
	}
}

// WalkLeaves visits every leaf of a value tree in order. Sequences are
// leaves: they merge and track provenance as atomic units.
func WalkLeaves(v any, path string, fn func(path string, value any)) {
	m, ok := v.(*Mapping)
	if !ok {
		fn(path, v)
		return
	}

	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		WalkLeaves(pair.Value, ChildPath(path, pair.Key), fn)
	}
}

// MappingPaths returns every key path in m, including intermediate
// mapping paths.
func MappingPaths(m *Mapping) map[string]struct{} {
	paths := map[string]struct{}{}
	collectMappingPaths(m, "", paths)
	return paths
}

func collectMappingPaths(m *Mapping, prefix string, paths map[string]struct{}) {
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		path := ChildPath(prefix, pair.Key)
		paths[path] = struct{}{}

		if sub, ok := pair.Value.(*Mapping); ok {
			collectMappingPaths(sub, path, paths)
		}
	}
}
