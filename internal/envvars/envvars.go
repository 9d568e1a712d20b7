// Package envvars maps between property paths and environment variable
// names using relaxed binding, and supplies override values for
// placeholder resolution.
package envvars

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gopatchy/springcfg/pkg/errors"
	"github.com/magiconair/properties"
)

// escape stands in for a literal underscore while decoding, since a
// single underscore in an environment variable name means a path
// separator.
const escape = "\x00"

// PropertyPathToEnvVars returns the environment variable names that
// bind to a property path, most specific first. Dots and brackets map
// to single underscores; the second candidate also folds dashes.
func PropertyPathToEnvVars(path string) []string {
	base := strings.NewReplacer(".", "_", "[", "_", "]", "").Replace(path)

	candidates := []string{strings.ToUpper(base)}

	folded := strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
	if folded != candidates[0] {
		candidates = append(candidates, folded)
	}

	return candidates
}

// EnvVarToPropertyPath converts an environment variable name to the
// property path it binds. A doubled underscore decodes to a literal
// underscore rather than a separator.
func EnvVarToPropertyPath(name string) string {
	s := strings.ReplaceAll(name, "__", escape)
	s = strings.ReplaceAll(s, "_", ".")
	s = strings.ReplaceAll(s, escape, "_")

	return strings.ToLower(s)
}

// LoadEnvFile reads KEY=VALUE pairs from a dotenv-style file.
func LoadEnvFile(fsys fs.FS, path string) (map[string]string, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %s (%w)", path, err, errors.ErrMissingFile)
	}

	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}

	p, err := loader.LoadBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %s (%w)", path, err, errors.ErrDecode)
	}

	vars := map[string]string{}

	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		vars[key] = strings.Trim(value, `"'`)
	}

	return vars, nil
}

// ParseOverrides converts KEY=VALUE arguments into an override map.
// Arguments without an equals sign are rejected.
func ParseOverrides(args []string) (map[string]string, error) {
	vars := map[string]string{}

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%q is not KEY=VALUE (%w)", arg, errors.ErrInvalidType)
		}

		vars[key] = value
	}

	return vars, nil
}

// GetEnvValue resolves a property path against the override map and,
// optionally, the process environment. Overrides win.
func GetEnvValue(path string, overrides map[string]string, useSystemEnv bool) (string, bool) {
	for _, name := range PropertyPathToEnvVars(path) {
		if v, found := overrides[name]; found {
			return v, true
		}
	}

	if v, found := overrides[path]; found {
		return v, true
	}

	if !useSystemEnv {
		return "", false
	}

	for _, name := range PropertyPathToEnvVars(path) {
		if v, found := os.LookupEnv(name); found {
			return v, true
		}
	}

	return "", false
}
