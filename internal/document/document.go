package document

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cast"
)

// activationKey is the in-document directive scoping a document to
// matching profiles.
const activationKey = "spring.config.activate.on-profile"

// Source identifies where a configuration value originated.
type Source struct {
	File string
	Line int
}

func (s Source) String() string {
	if s.Line > 0 {
		return fmt.Sprintf("%s:%d", filepath.Base(s.File), s.Line)
	}

	return filepath.Base(s.File)
}

// Document is one parsed configuration document: a single YAML document
// from a multi-document stream, or one #----separated section of a
// properties file. Content is read-only after parsing; merge and
// placeholder resolution clone rather than mutate.
type Document struct {
	Content    *Mapping
	Path       string
	Activation string // profile expression; empty means always applies
	Index      int    // position within the source file
	Test       bool   // parsed from a test resource root

	lines map[string]int
}

func New(path string, index int, content *Mapping) *Document {
	if content == nil {
		content = NewMapping()
	}

	return &Document{
		Content: content,
		Path:    path,
		Index:   index,
	}
}

// SetLine records the source line for a value path, for provenance.
func (d *Document) SetLine(path string, line int) {
	if d.lines == nil {
		d.lines = map[string]int{}
	}

	d.lines[path] = line
}

// SourceAt returns the Source for a value path within this document.
// Line is zero when the parser had no position information.
func (d *Document) SourceAt(path string) Source {
	return Source{
		File: d.Path,
		Line: d.lines[path],
	}
}

func (d *Document) String() string {
	return fmt.Sprintf("%s[doc%d]", d.Path, d.Index)
}

// ActivationOf reads the spring.config.activate.on-profile directive
// from a document tree. Non-string scalars (a profile name that parses
// as a number) are stringified.
func ActivationOf(content *Mapping) string {
	v, found := Get(content, activationKey)
	if !found || v == nil || !IsScalar(v) {
		return ""
	}

	return cast.ToString(v)
}
