package format

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/pkg/errors"
	"github.com/magiconair/properties"
)

const activationProperty = "spring.config.activate.on-profile"

var (
	propertiesSeparatorRE = regexp.MustCompile(`(?m)^[#!]---\s*$`)
	activationCommentRE   = regexp.MustCompile(`(?m)^[#!]\s*spring\.config\.activate\.on-profile\s*[=:]\s*(.+)$`)
)

// parseProperties decodes a properties file. #--- separator lines split
// it into documents, matching multi-document YAML. An activation
// condition appears either as a commented directive right after the
// separator or as an ordinary property, which is consumed rather than
// kept as configuration.
func parseProperties(raw []byte, path string) ([]*document.Document, error) {
	chunks := propertiesSeparatorRE.Split(string(raw), -1)

	docs := []*document.Document{}

	for index, chunk := range chunks {
		activation := ""

		if m := activationCommentRE.FindStringSubmatch(chunk); m != nil {
			activation = strings.TrimSpace(m[1])
		}

		loader := &properties.Loader{
			Encoding:         properties.UTF8,
			DisableExpansion: true,
		}

		p, err := loader.LoadBytes([]byte(chunk))
		if err != nil {
			return nil, fmt.Errorf("%s: %s (%w)", path, err, errors.ErrDecode)
		}

		if p.Len() == 0 && activation == "" {
			continue
		}

		doc := document.New(path, index, nil)

		for _, key := range p.Keys() {
			value, _ := p.Get(key)

			if key == activationProperty {
				activation = strings.TrimSpace(value)
				continue
			}

			document.Set(doc.Content, key, coerceScalar(value))
		}

		document.Normalize(doc.Content)

		doc.Activation = activation
		docs = append(docs, doc)
	}

	if len(docs) == 0 && len(bytes.TrimSpace(raw)) > 0 {
		docs = append(docs, document.New(path, 0, nil))
	}

	return docs, nil
}

// coerceScalar maps property values onto the scalar types YAML parsing
// produces, so the two formats merge uniformly.
func coerceScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}

func propertiesMarshal(v any) ([]byte, error) {
	m, ok := v.(*document.Mapping)
	if !ok {
		return nil, fmt.Errorf("properties output requires a mapping (%w)", errors.ErrEncode)
	}

	p := properties.NewProperties()
	p.WriteSeparator = "="

	document.WalkLeaves(m, "", func(path string, value any) {
		_, _, err := p.Set(path, propertyString(value))
		if err != nil {
			// Set only fails on circular expansion, which
			// DisableExpansion-free literal values cannot produce
			panic(err)
		}
	})

	buf := &bytes.Buffer{}

	_, err := p.Write(buf, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("%s (%w)", err, errors.ErrEncode)
	}

	return buf.Bytes(), nil
}

func propertyString(v any) string {
	switch v2 := v.(type) {
	case nil:
		return ""

	case []any:
		items := make([]string, len(v2))
		for i, item := range v2 {
			items[i] = propertyString(item)
		}
		return strings.Join(items, ",")

	default:
		return fmt.Sprint(v2)
	}
}
