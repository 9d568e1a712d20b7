// Package format parses configuration files into documents and encodes
// value trees for output.
package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/pkg/errors"
)

// DefaultMaxDepth caps value tree nesting during parsing, guarding
// against adversarial input.
const DefaultMaxDepth = 50

// Format encodes a value tree for output.
type Format struct {
	Marshal func(any) ([]byte, error)
}

var formatByName = map[string]Format{
	"yaml": {
		Marshal: yamlMarshal,
	},
	"yml": {
		Marshal: yamlMarshal,
	},
	"json": {
		Marshal: jsonMarshal,
	},
	"json-pretty": {
		Marshal: jsonMarshalPretty,
	},
	"toml": {
		Marshal: tomlMarshal,
	},
	"properties": {
		Marshal: propertiesMarshal,
	},
}

// Get retrieves an output format by name.
func Get(name string) (*Format, error) {
	f, found := formatByName[name]
	if !found {
		return nil, fmt.Errorf("%s: %w", name, errors.ErrUnknownFormat)
	}

	return &f, nil
}

// Names returns the supported output format names.
func Names() []string {
	names := make([]string, 0, len(formatByName))
	for name := range formatByName {
		names = append(names, name)
	}

	return names
}

// Ext returns the lowercased file extension without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes a configuration file into documents, dispatching on the
// file extension.
func Parse(raw []byte, path string, maxDepth int) ([]*document.Document, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	switch Ext(path) {
	case "yml", "yaml":
		return parseYAML(raw, path, maxDepth)

	case "properties":
		return parseProperties(raw, path)

	default:
		return nil, fmt.Errorf("%s: %w", path, errors.ErrUnknownFormat)
	}
}
