package format_test

import (
	"strings"
	"testing"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/format"
	"github.com/gopatchy/springcfg/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseYAMLSingleDocument(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`
server:
  port: 8080
  hosts:
    - a.example.com
    - b.example.com
debug: true
ratio: 0.5
`), "application.yml", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	require.Equal(t, "application.yml", doc.Path)
	require.Equal(t, 0, doc.Index)
	require.Equal(t, "", doc.Activation)

	port, found := document.Get(doc.Content, "server.port")
	require.True(t, found)
	require.Equal(t, 8080, port)

	hosts, found := document.Get(doc.Content, "server.hosts")
	require.True(t, found)
	require.Equal(t, []any{"a.example.com", "b.example.com"}, hosts)

	host, found := document.Get(doc.Content, "server.hosts[1]")
	require.True(t, found)
	require.Equal(t, "b.example.com", host)

	debug, found := document.Get(doc.Content, "debug")
	require.True(t, found)
	require.Equal(t, true, debug)

	ratio, found := document.Get(doc.Content, "ratio")
	require.True(t, found)
	require.Equal(t, 0.5, ratio)
}

func TestParseYAMLMultiDocument(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`server:
  port: 8080
---
spring:
  config:
    activate:
      on-profile: prod
server:
  port: 443
`), "application.yml", 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	require.Equal(t, "", docs[0].Activation)
	require.Equal(t, "prod", docs[1].Activation)
	require.Equal(t, 1, docs[1].Index)
}

func TestParseYAMLLines(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`server:
  port: 8080
spring:
  application:
    name: demo
`), "application.yml", 0)
	require.NoError(t, err)

	source := docs[0].SourceAt("server.port")
	require.Equal(t, "application.yml", source.File)
	require.Equal(t, 2, source.Line)
	require.Equal(t, "application.yml:2", source.String())

	source = docs[0].SourceAt("spring.application.name")
	require.Equal(t, 5, source.Line)
}

func TestParseYAMLEmptyDocumentsKeepIndexes(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`a: 1
---
---
b: 2
`), "application.yml", 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, 0, docs[0].Index)
	require.Equal(t, 2, docs[1].Index)
}

func TestParseYAMLNonMapping(t *testing.T) {
	t.Parallel()

	_, err := format.Parse([]byte("- a\n- b\n"), "application.yml", 0)
	require.ErrorIs(t, err, errors.ErrDecode)
}

func TestParseYAMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := format.Parse([]byte("a: [\n"), "application.yml", 0)
	require.ErrorIs(t, err, errors.ErrDecode)
}

func TestParseYAMLDepthLimit(t *testing.T) {
	t.Parallel()

	deep := strings.Builder{}
	for i := 0; i < 10; i++ {
		deep.WriteString(strings.Repeat("  ", i))
		deep.WriteString("k:\n")
	}
	deep.WriteString(strings.Repeat("  ", 10))
	deep.WriteString("v: 1\n")

	_, err := format.Parse([]byte(deep.String()), "application.yml", 5)
	require.ErrorIs(t, err, errors.ErrMaxDepth)

	_, err = format.Parse([]byte(deep.String()), "application.yml", 0)
	require.NoError(t, err)
}

func TestParseYAMLAnchors(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`defaults: &defaults
  timeout: 30
service:
  <<: *defaults
  name: demo
`), "application.yml", 0)
	require.NoError(t, err)

	// Merge keys are not expanded, but plain aliases resolve
	_, found := document.Get(docs[0].Content, "defaults.timeout")
	require.True(t, found)
}

func TestParseUnknownExtension(t *testing.T) {
	t.Parallel()

	_, err := format.Parse([]byte("a=1"), "application.conf", 0)
	require.ErrorIs(t, err, errors.ErrUnknownFormat)
}

func TestParsePropertiesFlat(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`server.port=8080
spring.application.name=demo
debug=true
ratio=0.5
`), "application.properties", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	port, found := document.Get(docs[0].Content, "server.port")
	require.True(t, found)
	require.Equal(t, 8080, port)

	name, found := document.Get(docs[0].Content, "spring.application.name")
	require.True(t, found)
	require.Equal(t, "demo", name)

	debug, found := document.Get(docs[0].Content, "debug")
	require.True(t, found)
	require.Equal(t, true, debug)

	ratio, found := document.Get(docs[0].Content, "ratio")
	require.True(t, found)
	require.Equal(t, 0.5, ratio)
}

func TestParsePropertiesMultiDocument(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`server.port=8080
#---
#spring.config.activate.on-profile=prod
server.port=443
`), "application.properties", 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	require.Equal(t, "", docs[0].Activation)
	require.Equal(t, "prod", docs[1].Activation)

	port, found := document.Get(docs[1].Content, "server.port")
	require.True(t, found)
	require.Equal(t, 443, port)
}

func TestParsePropertiesInlineActivation(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`spring.config.activate.on-profile=dev
server.port=3000
`), "application.properties", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "dev", docs[0].Activation)

	// The directive is consumed, not kept as configuration
	_, found := document.Get(docs[0].Content, "spring.config.activate.on-profile")
	require.False(t, found)
}

func TestParsePropertiesBracketKeys(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`server.hosts[0]=a.example.com
server.hosts[1]=b.example.com
`), "application.properties", 0)
	require.NoError(t, err)

	hosts, found := document.Get(docs[0].Content, "server.hosts")
	require.True(t, found)
	require.Equal(t, []any{"a.example.com", "b.example.com"}, hosts)
}

func TestParsePropertiesNoExpansion(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte("a=${b}\nb=1\n"), "application.properties", 0)
	require.NoError(t, err)

	a, found := document.Get(docs[0].Content, "a")
	require.True(t, found)
	require.Equal(t, "${b}", a)
}

func TestMarshalYAMLPreservesOrder(t *testing.T) {
	t.Parallel()

	m := document.NewMapping()
	m.Set("zebra", 1)
	m.Set("apple", 2)

	f, err := format.Get("yaml")
	require.NoError(t, err)

	raw, err := f.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, "zebra: 1\napple: 2\n", string(raw))
}

func TestMarshalJSONPreservesOrder(t *testing.T) {
	t.Parallel()

	m := document.NewMapping()
	m.Set("zebra", 1)
	m.Set("apple", 2)

	f, err := format.Get("json")
	require.NoError(t, err)

	raw, err := f.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, "{\"zebra\":1,\"apple\":2}\n", string(raw))
}

func TestMarshalProperties(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`server:
  port: 8080
  hosts:
    - a
    - b
`), "application.yml", 0)
	require.NoError(t, err)

	f, err := format.Get("properties")
	require.NoError(t, err)

	raw, err := f.Marshal(docs[0].Content)
	require.NoError(t, err)
	require.Contains(t, string(raw), "server.port=8080")
	require.Contains(t, string(raw), "server.hosts=a,b")
}

func TestMarshalTOML(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte("server:\n  port: 8080\n"), "application.yml", 0)
	require.NoError(t, err)

	f, err := format.Get("toml")
	require.NoError(t, err)

	raw, err := f.Marshal(docs[0].Content)
	require.NoError(t, err)
	require.Contains(t, string(raw), "[server]")
	require.Contains(t, string(raw), "port = 8080")
}

func TestGetUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := format.Get("xml")
	require.ErrorIs(t, err, errors.ErrUnknownFormat)
}

func TestExt(t *testing.T) {
	t.Parallel()

	require.Equal(t, "yml", format.Ext("config/application.yml"))
	require.Equal(t, "properties", format.Ext("application-prod.PROPERTIES"))
	require.Equal(t, "", format.Ext("Makefile"))
}
