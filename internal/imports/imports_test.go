package imports_test

import (
	"testing"
	"testing/fstest"

	"github.com/gopatchy/springcfg/internal/format"
	"github.com/gopatchy/springcfg/internal/imports"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte(`
spring:
  config:
    import: optional:file:./extra.yml
`), "application.yml", 0)
	require.NoError(t, err)

	locations := imports.Extract(docs[0].Content)
	require.Len(t, locations, 1)
	require.True(t, locations[0].Optional)
	require.Equal(t, "file", locations[0].Scheme)
	require.Equal(t, "./extra.yml", locations[0].Path)
}

func TestExtractAbsent(t *testing.T) {
	t.Parallel()

	docs, err := format.Parse([]byte("server:\n  port: 1\n"), "application.yml", 0)
	require.NoError(t, err)

	require.Empty(t, imports.Extract(docs[0].Content))
}

func TestParseValueCommaList(t *testing.T) {
	t.Parallel()

	locations := imports.ParseValue("file:a.yml, optional:b.properties")
	require.Len(t, locations, 2)

	require.Equal(t, "a.yml", locations[0].Path)
	require.False(t, locations[0].Optional)

	require.Equal(t, "b.properties", locations[1].Path)
	require.True(t, locations[1].Optional)
}

func TestParseValueSequence(t *testing.T) {
	t.Parallel()

	locations := imports.ParseValue([]any{"file:a.yml", "b.yml"})
	require.Len(t, locations, 2)
	require.Equal(t, "a.yml", locations[0].Path)
	require.Equal(t, "b.yml", locations[1].Path)
}

func TestParseValueOtherScheme(t *testing.T) {
	t.Parallel()

	locations := imports.ParseValue("configtree:/etc/config/")
	require.Len(t, locations, 1)
	require.Equal(t, "configtree", locations[0].Scheme)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/main/resources/extra.yml": &fstest.MapFile{Data: []byte("a: 1\n")},
	}

	locations := imports.ParseValue("file:extra.yml")
	require.Len(t, locations, 1)

	resolved, found := locations[0].Resolve(fsys, []string{"src/main/resources"})
	require.True(t, found)
	require.Equal(t, "src/main/resources/extra.yml", resolved)

	_, found = locations[0].Resolve(fsys, []string{"config"})
	require.False(t, found)
}

func TestResolveRelative(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"extra.yml": &fstest.MapFile{Data: []byte("a: 1\n")},
	}

	locations := imports.ParseValue("optional:file:./extra.yml")
	resolved, found := locations[0].Resolve(fsys, nil)
	require.True(t, found)
	require.Equal(t, "extra.yml", resolved)
}

func TestResolveClasspath(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/main/resources/config/default.yml": &fstest.MapFile{Data: []byte("a: 1\n")},
		"config/default.yml":                    &fstest.MapFile{Data: []byte("a: 2\n")},
	}

	locations := imports.ParseValue("classpath:config/default.yml")
	require.Len(t, locations, 1)
	require.Equal(t, "classpath", locations[0].Scheme)

	resolved, found := locations[0].Resolve(fsys, []string{"src/main/resources"})
	require.True(t, found)
	require.Equal(t, "src/main/resources/config/default.yml", resolved)

	// classpath paths only resolve against the base directories
	_, found = locations[0].Resolve(fsys, nil)
	require.False(t, found)
}

func TestResolveNonFileScheme(t *testing.T) {
	t.Parallel()

	locations := imports.ParseValue("configtree:/etc/config/")
	_, found := locations[0].Resolve(fstest.MapFS{}, nil)
	require.False(t, found)
}
