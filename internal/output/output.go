// Package output renders the effective configuration as YAML with
// per-value source attribution comments.
package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/format"
	"github.com/gopatchy/springcfg/internal/merge"
	"github.com/gopatchy/springcfg/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Render produces annotated YAML for a resolved configuration. Each
// section gets a "From:" block comment naming its source file; leaves
// whose source differs from their section get an inline comment.
// Properties absent from the base configuration are marked "(new)" and
// reported as warnings, since they only exist under the active
// profiles. baseProps may be nil to skip new-property tracking.
func Render(config *document.Mapping, sources merge.SourceMap, baseProps map[string]struct{}) (string, []string, error) {
	r := &renderer{
		sources:   sources,
		baseProps: baseProps,
	}

	root := r.buildMapping(config, "")

	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	err := enc.Encode(root)
	if err != nil {
		return "", nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	err = enc.Close()
	if err != nil {
		return "", nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	return buf.String(), r.warnings, nil
}

type renderer struct {
	sources   merge.SourceMap
	baseProps map[string]struct{}
	lastBlock string
	warnings  []string
}

func (r *renderer) buildMapping(m *document.Mapping, prefix string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		path := document.ChildPath(prefix, pair.Key)
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}

		if sub, ok := pair.Value.(*document.Mapping); ok {
			sectionFile := r.sectionFile(path)

			if sectionFile != "" && sectionFile != r.lastBlock {
				keyNode.HeadComment = fmt.Sprintf("From: %s", sectionFile)
				r.lastBlock = sectionFile
			}

			node.Content = append(node.Content, keyNode, r.buildMapping(sub, path))
			continue
		}

		valueNode := format.ToNode(pair.Value)
		r.annotateLeaf(keyNode, valueNode, path)

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node
}

func (r *renderer) annotateLeaf(keyNode, valueNode *yaml.Node, path string) {
	isNew := r.markNew(path)

	source, found := r.sources[path]
	if !found {
		if isNew {
			valueNode.LineComment = "(new)"
		}
		return
	}

	file := filepath.Base(source.File)

	comment := source.String()
	if isNew {
		comment += " (new)"
	}

	parentFile := r.parentFile(path)

	switch {
	case parentFile != "" && file != parentFile:
		// Overridden relative to the surrounding section
		valueNode.LineComment = comment

	case parentFile == "" && file != r.lastBlock:
		keyNode.HeadComment = fmt.Sprintf("From: %s", comment)
		r.lastBlock = file

	case isNew:
		valueNode.LineComment = "(new)"
	}
}

func (r *renderer) markNew(path string) bool {
	if len(r.baseProps) == 0 {
		return false
	}

	if _, found := r.baseProps[path]; found {
		return false
	}

	r.warnings = append(r.warnings, fmt.Sprintf("property %s is not defined in the base application config", path))

	return true
}

// sectionFile returns the predominant source file under a path: the
// path's own file for a leaf, or the most frequent file among the
// section's leaves, ties broken alphabetically for stable output.
func (r *renderer) sectionFile(path string) string {
	if source, found := r.sources[path]; found {
		return filepath.Base(source.File)
	}

	counts := map[string]int{}
	names := []string{}

	for key, source := range r.sources {
		if !strings.HasPrefix(key, path+".") && !strings.HasPrefix(key, path+"[") {
			continue
		}

		name := filepath.Base(source.File)
		if counts[name] == 0 {
			names = append(names, name)
		}
		counts[name]++
	}

	if len(names) == 0 {
		return ""
	}

	slices.Sort(names)
	best := names[0]

	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}

	return best
}

func (r *renderer) parentFile(path string) string {
	i := strings.LastIndex(path, ".")
	if i == -1 {
		return ""
	}

	return r.sectionFile(path[:i])
}

// Filename builds the conventional output filename for a profile set,
// e.g. "application-prod-aws-computed.yml".
func Filename(profiles []string) string {
	if len(profiles) == 0 {
		return "application-computed.yml"
	}

	return fmt.Sprintf("application-%s-computed.yml", strings.Join(profiles, "-"))
}
