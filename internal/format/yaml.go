package format

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/pkg/errors"
	"gopkg.in/yaml.v3"
)

// parseYAML decodes a multi-document YAML stream. Each document keeps
// per-value line positions for provenance. Empty documents are skipped
// but still consume an index, preserving intra-file order.
func parseYAML(raw []byte, path string, maxDepth int) ([]*document.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	docs := []*document.Document{}

	for index := 0; ; index++ {
		var node yaml.Node

		err := dec.Decode(&node)
		if goerrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %s (%w)", path, err, errors.ErrDecode)
		}

		root := resolveAlias(&node)
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = resolveAlias(root.Content[0])
		}

		if root.Kind == 0 || (root.Kind == yaml.ScalarNode && root.Tag == "!!null") {
			continue
		}

		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s: line %d: document is not a mapping (%w)", path, root.Line, errors.ErrDecode)
		}

		doc := document.New(path, index, nil)

		content, err := convertMapping(root, doc, "", 0, maxDepth, path)
		if err != nil {
			return nil, err
		}

		doc.Content = content
		doc.Activation = document.ActivationOf(content)

		docs = append(docs, doc)
	}

	return docs, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

func convertMapping(n *yaml.Node, doc *document.Document, path string, depth, maxDepth int, file string) (*document.Mapping, error) {
	if depth >= maxDepth {
		return nil, fmt.Errorf("%s: line %d: %w", file, n.Line, errors.ErrMaxDepth)
	}

	m := document.NewMapping()

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		valueNode := resolveAlias(n.Content[i+1])

		key := keyNode.Value
		childPath := document.ChildPath(path, key)

		value, err := convertNode(valueNode, doc, childPath, depth+1, maxDepth, file)
		if err != nil {
			return nil, err
		}

		doc.SetLine(childPath, valueNode.Line)
		m.Set(key, value)
	}

	return m, nil
}

func convertNode(n *yaml.Node, doc *document.Document, path string, depth, maxDepth int, file string) (any, error) {
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.MappingNode:
		return convertMapping(n, doc, path, depth, maxDepth, file)

	case yaml.SequenceNode:
		if depth >= maxDepth {
			return nil, fmt.Errorf("%s: line %d: %w", file, n.Line, errors.ErrMaxDepth)
		}

		seq := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := convertNode(item, doc, document.IndexPath(path, i), depth+1, maxDepth, file)
			if err != nil {
				return nil, err
			}

			seq = append(seq, v)
		}

		return seq, nil

	default:
		var v any

		err := n.Decode(&v)
		if err != nil {
			return nil, fmt.Errorf("%s: %s (%w)", file, err, errors.ErrDecode)
		}

		return v, nil
	}
}

// ToNode converts a value tree to a yaml.Node, preserving mapping
// order.
func ToNode(v any) *yaml.Node {
	switch v2 := v.(type) {
	case *document.Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := v2.Oldest(); pair != nil; pair = pair.Next() {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}
			n.Content = append(n.Content, keyNode, ToNode(pair.Value))
		}
		return n

	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v2 {
			n.Content = append(n.Content, ToNode(item))
		}
		return n

	default:
		n := &yaml.Node{}
		err := n.Encode(v2)
		if err != nil {
			// Scalars always encode; fall back to the string form
			n = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v2)}
		}
		return n
	}
}

func yamlMarshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	err := enc.Encode(ToNode(v))
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	return buf.Bytes(), nil
}
