// Package placeholder resolves ${...} references in a merged
// configuration tree against environment variables, VCAP data, the
// tree itself, and inline defaults.
package placeholder

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/envvars"
	"github.com/gopatchy/springcfg/internal/vcap"
	"github.com/gopatchy/springcfg/pkg/log"
	"github.com/spf13/cast"
)

// DefaultMaxIterations bounds the fixed-point passes. Chains deeper
// than this almost certainly indicate a cycle.
const DefaultMaxIterations = 10

// placeholderRE matches ${name} and ${name:default}. The name may not
// contain a colon or closing brace; the default may be empty.
var placeholderRE = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// Resolver resolves placeholders in a merged configuration tree.
type Resolver struct {
	Overrides          map[string]string
	UseSystemEnv       bool
	VCAP               *vcap.Config
	IgnoreVCAPWarnings bool
	MaxIterations      int
}

// Resolve returns a resolved copy of config plus human-readable
// warnings for anything left unresolved. The input tree is not
// modified. Resolution iterates to a fixed point so chained references
// settle, then applies defaults to whatever never settled; placeholders
// with no source and no default stay in literal form.
func (r *Resolver) Resolve(config *document.Mapping) (*document.Mapping, []string) {
	maxIterations := r.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	resolved := document.DeepClone(config).(*document.Mapping)

	for i := 0; i < maxIterations; i++ {
		if !r.pass(resolved, false) {
			log.Debugf("placeholder resolution settled after %d pass(es)", i+1)
			break
		}
	}

	r.pass(resolved, true)

	return resolved, r.warnings(resolved)
}

// pass rewrites every resolvable placeholder once, reporting whether
// anything changed. In the final pass, defaults apply even when the
// referent exists but never resolved.
func (r *Resolver) pass(tree *document.Mapping, final bool) bool {
	changed := false

	var walk func(v any) any
	walk = func(v any) any {
		switch v2 := v.(type) {
		case *document.Mapping:
			for pair := v2.Oldest(); pair != nil; pair = pair.Next() {
				v2.Set(pair.Key, walk(pair.Value))
			}
			return v2

		case []any:
			for i, item := range v2 {
				v2[i] = walk(item)
			}
			return v2

		case string:
			out, didChange := r.resolveString(v2, tree, final)
			changed = changed || didChange
			return out

		default:
			return v2
		}
	}

	walk(tree)

	return changed
}

// resolveString substitutes the resolvable placeholders in one string
// value. A string that is exactly one placeholder keeps the referenced
// value's type; interpolation inside larger text stringifies.
func (r *Resolver) resolveString(s string, tree *document.Mapping, final bool) (any, bool) {
	m := placeholderRE.FindStringSubmatchIndex(s)
	if m == nil {
		return s, false
	}

	if m[0] == 0 && m[1] == len(s) {
		name := s[m[2]:m[3]]

		value, found, pending := r.lookup(name, tree)
		if found {
			return value, true
		}

		if pending && !final {
			return s, false
		}

		if m[4] != -1 {
			return s[m[4]:m[5]], true
		}

		return s, false
	}

	changed := false

	out := placeholderRE.ReplaceAllStringFunc(s, func(match string) string {
		groups := placeholderRE.FindStringSubmatch(match)
		name := groups[1]

		value, found, pending := r.lookup(name, tree)
		if found {
			changed = true
			return cast.ToString(value)
		}

		if pending && !final {
			return match
		}

		if strings.Contains(match, ":") {
			changed = true
			return groups[2]
		}

		return match
	})

	return out, changed
}

// lookup resolves a placeholder name through the precedence chain:
// environment overrides, the system environment, VCAP data, then the
// configuration tree itself. Mappings and sequences never substitute.
// pending means the referent exists but still contains placeholders of
// its own.
func (r *Resolver) lookup(name string, tree *document.Mapping) (any, bool, bool) {
	if v, found := envvars.GetEnvValue(name, r.Overrides, r.UseSystemEnv); found {
		return v, true, false
	}

	if vcap.IsVCAPPath(name) {
		if v, found := r.VCAP.Lookup(name); found && document.IsScalar(v) {
			return v, true, false
		}
	}

	if v, found := document.Get(tree, name); found && document.IsScalar(v) {
		if s, ok := v.(string); ok && placeholderRE.MatchString(s) {
			return nil, false, true
		}

		return v, true, false
	}

	return nil, false, false
}

// warnings scans the settled tree for leftover placeholders and
// classifies each: circular chains, missing VCAP input, or plainly
// unresolved names with a suggested environment variable.
func (r *Resolver) warnings(tree *document.Mapping) []string {
	refs := map[string][]string{}

	document.WalkLeaves(tree, "", func(path string, value any) {
		names := placeholderNames(value)
		if len(names) > 0 {
			refs[path] = names
		}
	})

	warnings := []string{}
	seen := map[string]struct{}{}

	add := func(w string) {
		if _, found := seen[w]; found {
			return
		}

		seen[w] = struct{}{}
		warnings = append(warnings, w)
	}

	circular := findCycles(refs, add)

	paths := make([]string, 0, len(refs))
	for path := range refs {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		for _, name := range refs[path] {
			if _, found := circular[name]; found {
				continue
			}

			if vcap.IsVCAPPath(name) && (r.VCAP == nil || !r.VCAP.Supplied) {
				if !r.IgnoreVCAPWarnings {
					add(fmt.Sprintf("%s references %s but no VCAP data was provided; supply VCAP_SERVICES/VCAP_APPLICATION input", path, name))
				}
				continue
			}

			add(fmt.Sprintf("unresolved placeholder ${%s} at %s; set environment variable %s or add a default", name, path, envvars.PropertyPathToEnvVars(name)[0]))
		}
	}

	return warnings
}

// findCycles walks reference chains (value at path A refers to B, B's
// value refers to C, ...) and reports each cycle once. It returns the
// set of names participating in any cycle.
func findCycles(refs map[string][]string, add func(string)) map[string]struct{} {
	circular := map[string]struct{}{}

	starts := make([]string, 0, len(refs))
	for path := range refs {
		starts = append(starts, path)
	}
	slices.Sort(starts)

	for _, start := range starts {
		visit(start, refs, []string{start}, circular, add)
	}

	return circular
}

func visit(path string, refs map[string][]string, chain []string, circular map[string]struct{}, add func(string)) {
	for _, name := range refs[path] {
		if i := slices.Index(chain, name); i != -1 {
			cycle := append(slices.Clone(chain[i:]), name)
			for _, n := range cycle {
				circular[n] = struct{}{}
			}

			add(fmt.Sprintf("circular placeholder reference: %s", strings.Join(cycle, " -> ")))
			continue
		}

		if _, found := refs[name]; found {
			visit(name, refs, append(slices.Clone(chain), name), circular, add)
		}
	}
}

func placeholderNames(v any) []string {
	s, ok := v.(string)
	if !ok {
		return nil
	}

	names := []string{}
	for _, m := range placeholderRE.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}

	return names
}
