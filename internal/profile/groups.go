// Package profile implements profile group expansion and document
// activation filtering.
package profile

import (
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/spf13/cast"
)

const groupKey = "spring.profiles.group"

// Groups maps a group name to its member profiles in declared order.
type Groups map[string][]string

// ParseGroups extracts spring.profiles.group.* definitions from a
// document tree. Members are either a comma-separated string or a
// sequence; other shapes are ignored.
func ParseGroups(content *document.Mapping) Groups {
	groups := Groups{}

	v, found := document.Get(content, groupKey)
	if !found {
		return groups
	}

	m, ok := v.(*document.Mapping)
	if !ok {
		return groups
	}

	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		members := parseMembers(pair.Value)
		if members != nil {
			groups[pair.Key] = members
		}
	}

	return groups
}

func parseMembers(v any) []string {
	switch v2 := v.(type) {
	case string:
		members := []string{}
		for _, m := range strings.Split(v2, ",") {
			m = strings.TrimSpace(m)
			if m != "" {
				members = append(members, m)
			}
		}
		return members

	case []any:
		members := []string{}
		for _, item := range v2 {
			if item == nil || !document.IsScalar(item) {
				continue
			}

			m := cast.ToString(item)
			if m != "" {
				members = append(members, m)
			}
		}
		return members

	default:
		return nil
	}
}

// CollectGroups merges group definitions from every document without an
// activation condition, in document order. Later definitions of the
// same group name win.
func CollectGroups(docs []*document.Document) Groups {
	groups := Groups{}

	for _, doc := range docs {
		if doc.Activation != "" {
			continue
		}

		for name, members := range ParseGroups(doc.Content) {
			groups[name] = members
		}
	}

	return groups
}
