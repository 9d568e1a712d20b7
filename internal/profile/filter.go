package profile

import (
	"fmt"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/expr"
)

// Applicable filters documents by their activation condition against
// the expanded active profile list, preserving order. A document with
// no condition always applies. A malformed activation expression makes
// that document never-active and records a warning; it does not abort
// the run.
func Applicable(docs []*document.Document, active []string) ([]*document.Document, []string) {
	ret := []*document.Document{}
	warnings := []string{}

	for _, doc := range docs {
		if doc.Activation == "" {
			ret = append(ret, doc)
			continue
		}

		matched, err := expr.Matches(doc.Activation, active)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: activation expression %q: %s; document treated as never active", doc, doc.Activation, err))
			continue
		}

		if matched {
			ret = append(ret, doc)
		}
	}

	return ret, warnings
}
