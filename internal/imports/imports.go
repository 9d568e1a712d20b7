// Package imports extracts and resolves spring.config.import
// directives.
package imports

import (
	"io/fs"
	"path"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/spf13/cast"
)

const importKey = "spring.config.import"

// MaxDepth bounds transitive import chains.
const MaxDepth = 10

// Location is one parsed import directive. Optional imports that do
// not resolve to a file are silently skipped; mandatory ones warn.
type Location struct {
	Raw      string
	Scheme   string // "file" unless the directive named another source
	Path     string
	Optional bool
}

// Extract reads the spring.config.import directive from a document
// tree. The value is a single string, a comma-separated string, or a
// sequence of strings.
func Extract(content *document.Mapping) []Location {
	v, found := document.Get(content, importKey)
	if !found {
		return nil
	}

	return ParseValue(v)
}

// ParseValue parses an import directive value into locations.
func ParseValue(v any) []Location {
	raw := []string{}

	switch v2 := v.(type) {
	case string:
		for _, part := range strings.Split(v2, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				raw = append(raw, part)
			}
		}

	case []any:
		for _, item := range v2 {
			if item == nil || !document.IsScalar(item) {
				continue
			}

			s := strings.TrimSpace(cast.ToString(item))
			if s != "" {
				raw = append(raw, s)
			}
		}

	default:
		return nil
	}

	locations := make([]Location, 0, len(raw))
	for _, r := range raw {
		locations = append(locations, parseOne(r))
	}

	return locations
}

func parseOne(raw string) Location {
	loc := Location{Raw: raw, Scheme: "file"}

	rest := raw
	if after, found := strings.CutPrefix(rest, "optional:"); found {
		loc.Optional = true
		rest = after
	}

	if scheme, after, found := strings.Cut(rest, ":"); found && !strings.Contains(scheme, "/") {
		loc.Scheme = scheme
		rest = after
	}

	loc.Path = rest

	return loc
}

// Resolve locates the import target, first match wins. file: paths are
// tried as written and then against the base directories; classpath:
// paths only against the base directories. The second return is false
// when no candidate exists.
func (l Location) Resolve(fsys fs.FS, baseDirs []string) (string, bool) {
	if l.Scheme != "file" && l.Scheme != "classpath" {
		return "", false
	}

	candidates := []string{}
	if l.Scheme == "file" {
		candidates = append(candidates, path.Clean(strings.TrimPrefix(l.Path, "./")))
	}

	for _, dir := range baseDirs {
		candidates = append(candidates, path.Join(dir, l.Path))
	}

	for _, candidate := range candidates {
		info, err := fs.Stat(fsys, candidate)
		if err != nil || info.IsDir() {
			continue
		}

		return candidate, true
	}

	return "", false
}
