package springcfg

import (
	"fmt"
	"io/fs"

	"github.com/gopatchy/springcfg/internal/output"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// CompareResult describes how the effective configuration differs
// between two profile sets.
type CompareResult struct {
	Profiles1 []string
	Profiles2 []string
	Diff      string
	Warnings  []string
}

// Compare resolves the same project under two profile sets and returns
// a unified diff of the annotated output.
func Compare(fsys fs.FS, projectPath string, profiles1, profiles2 []string, opts *Options) (*CompareResult, error) {
	render := func(profiles []string) (string, []string, error) {
		result, err := Resolve(fsys, projectPath, profiles, opts)
		if err != nil {
			return "", nil, fmt.Errorf("failed to resolve profiles %v: %w", profiles, err)
		}

		text, err := result.Render()
		if err != nil {
			return "", nil, err
		}

		return text, result.Warnings, nil
	}

	text1, warnings1, err := render(profiles1)
	if err != nil {
		return nil, err
	}

	text2, warnings2, err := render(profiles2)
	if err != nil {
		return nil, err
	}

	name1 := output.Filename(profiles1)
	name2 := output.Filename(profiles2)

	edits := myers.ComputeEdits(span.URIFromPath(name1), text1, text2)
	unified := fmt.Sprint(gotextdiff.ToUnified(name1, name2, text1, edits))

	return &CompareResult{
		Profiles1: profiles1,
		Profiles2: profiles2,
		Diff:      unified,
		Warnings:  append(warnings1, warnings2...),
	}, nil
}
