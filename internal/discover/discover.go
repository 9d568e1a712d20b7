// Package discover locates configuration files in a project tree and
// parses them into documents.
package discover

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/format"
	"github.com/gopatchy/springcfg/pkg/errors"
	"github.com/gopatchy/springcfg/pkg/log"
)

const baseName = "application"

// extOrder fixes the precedence among files that differ only by
// extension: a .yaml file overrides a .yml file, and .properties
// overrides both.
var extOrder = []string{"yml", "yaml", "properties"}

// DefaultRoots are the directories searched for main configuration,
// relative to the project path.
var DefaultRoots = []string{
	"src/main/resources",
}

// TestRoots are the directories searched for test configuration.
var TestRoots = []string{
	"src/test/resources",
}

// Base returns the base configuration files under dir, in extension
// precedence order. Missing files are simply absent from the result.
func Base(fsys fs.FS, dir string) []string {
	return find(fsys, dir, baseName)
}

// Profile returns the profile-specific configuration files for one
// profile under dir, in extension precedence order.
func Profile(fsys fs.FS, dir, profile string) []string {
	return find(fsys, dir, fmt.Sprintf("%s-%s", baseName, profile))
}

func find(fsys fs.FS, dir, stem string) []string {
	found := []string{}

	for _, ext := range extOrder {
		p := path.Join(dir, fmt.Sprintf("%s.%s", stem, ext))

		info, err := fs.Stat(fsys, p)
		if err != nil || info.IsDir() {
			continue
		}

		found = append(found, p)
	}

	return found
}

// ProfileOf extracts the profile name from a configuration filename,
// e.g. "application-prod.yml" yields "prod". Base files yield "".
func ProfileOf(file string) string {
	stem := path.Base(file)
	if ext := path.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}

	if !strings.HasPrefix(stem, baseName+"-") {
		return ""
	}

	return strings.TrimPrefix(stem, baseName+"-")
}

// ParseFile reads and parses one configuration file. Every resulting
// document carries the test flag.
func ParseFile(fsys fs.FS, file string, test bool, maxDepth int) ([]*document.Document, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %s (%w)", file, err, errors.ErrMissingFile)
	}

	docs, err := format.Parse(raw, file, maxDepth)
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		doc.Test = test
	}

	log.Debugf("parsed %s: %d document(s)", file, len(docs))

	return docs, nil
}
