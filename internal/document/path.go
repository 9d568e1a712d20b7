package document

import (
	"fmt"
	"strconv"
	"strings"
)

// ChildPath joins a parent path and a key into dot notation.
func ChildPath(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

// IndexPath joins a parent path and a sequence index into bracket
// notation, e.g. "server.hosts[0]".
func IndexPath(prefix string, index int) string {
	return fmt.Sprintf("%s[%d]", prefix, index)
}

type pathPart struct {
	key     string
	index   int
	isIndex bool
}

// parsePath splits a dot/bracket path like "a.b[2].c" into parts.
func parsePath(path string) []pathPart {
	parts := []pathPart{}
	current := strings.Builder{}

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, pathPart{key: current.String()})
			current.Reset()
		}
	}

	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			flush()
			i++

		case '[':
			flush()

			end := strings.IndexByte(path[i:], ']')
			if end == -1 {
				current.WriteByte(path[i])
				i++
				continue
			}

			idx, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil {
				// Not a numeric index; keep the brackets as literal key text
				current.WriteString(path[i : i+end+1])
			} else {
				parts = append(parts, pathPart{index: idx, isIndex: true})
			}
			i += end + 1

		default:
			current.WriteByte(path[i])
			i++
		}
	}

	flush()

	return parts
}

// Get looks up a dot/bracket path in a value tree. The second return is
// false when any path segment is absent or typed differently than the
// path expects.
func Get(v any, path string) (any, bool) {
	current := v

	for _, part := range parsePath(path) {
		if part.isIndex {
			seq, ok := current.([]any)
			if !ok || part.index < 0 || part.index >= len(seq) {
				return nil, false
			}

			current = seq[part.index]
			continue
		}

		m, ok := current.(*Mapping)
		if !ok {
			return nil, false
		}

		next, found := m.Get(part.key)
		if !found {
			return nil, false
		}

		current = next
	}

	return current, true
}

// Set writes a value at a dot/bracket path, creating intermediate
// mappings and extending sequences as needed. Callers finish with
// Normalize to collapse the internal sequence pointers.
func Set(m *Mapping, path string, value any) {
	parts := parsePath(path)
	if len(parts) == 0 {
		return
	}

	var current any = m

	for i, part := range parts[:len(parts)-1] {
		current = descend(current, part, parts[i+1])
		if current == nil {
			return
		}
	}

	last := parts[len(parts)-1]

	switch c := current.(type) {
	case *Mapping:
		if !last.isIndex {
			c.Set(last.key, value)
		}

	case *[]any:
		if last.isIndex {
			for len(*c) <= last.index {
				*c = append(*c, nil)
			}
			(*c)[last.index] = value
		}
	}
}

// descend returns the container for the next path segment, creating it
// when absent. Sequences are held by pointer so extension is visible to
// the parent.
func descend(current any, part, next pathPart) any {
	newContainer := func() any {
		if next.isIndex {
			s := []any{}
			return &s
		}
		return NewMapping()
	}

	switch c := current.(type) {
	case *Mapping:
		if part.isIndex {
			return nil
		}

		v, found := c.Get(part.key)
		if !found {
			v = newContainer()
			c.Set(part.key, v)
		}

		if seq, ok := v.([]any); ok {
			p := &seq
			c.Set(part.key, p)
			return p
		}

		return v

	case *[]any:
		if !part.isIndex {
			return nil
		}

		for len(*c) <= part.index {
			*c = append(*c, nil)
		}

		if (*c)[part.index] == nil {
			(*c)[part.index] = newContainer()
		}

		if seq, ok := (*c)[part.index].([]any); ok {
			p := &seq
			(*c)[part.index] = p
			return p
		}

		return (*c)[part.index]

	default:
		return nil
	}
}

// Normalize collapses the sequence pointers introduced while building a
// tree with Set back into plain []any values.
func Normalize(v any) any {
	switch v2 := v.(type) {
	case *Mapping:
		for pair := v2.Oldest(); pair != nil; pair = pair.Next() {
			v2.Set(pair.Key, Normalize(pair.Value))
		}
		return v2

	case *[]any:
		return Normalize(*v2)

	case []any:
		for i, item := range v2 {
			v2[i] = Normalize(item)
		}
		return v2

	default:
		return v2
	}
}
