package placeholder_test

import (
	"testing"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/format"
	"github.com/gopatchy/springcfg/internal/placeholder"
	"github.com/gopatchy/springcfg/internal/vcap"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, src string) *document.Mapping {
	t.Helper()

	docs, err := format.Parse([]byte(src), "application.yml", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	return docs[0].Content
}

func TestResolveFromTree(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
app:
  name: demo
greeting: Hello from ${app.name}!
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	v, _ := document.Get(resolved, "greeting")
	require.Equal(t, "Hello from demo!", v)
}

func TestResolveWholeStringKeepsType(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
server:
  port: 8080
proxy:
  port: ${server.port}
  label: "port ${server.port}"
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	port, _ := document.Get(resolved, "proxy.port")
	require.Equal(t, 8080, port)

	label, _ := document.Get(resolved, "proxy.label")
	require.Equal(t, "port 8080", label)
}

func TestResolveChained(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
a: ${b}
b: ${c}
c: final
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	v, _ := document.Get(resolved, "a")
	require.Equal(t, "final", v)
}

func TestResolveDefault(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
host: ${db.host:localhost}
empty: ${db.user:}
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	v, _ := document.Get(resolved, "host")
	require.Equal(t, "localhost", v)

	v, _ = document.Get(resolved, "empty")
	require.Equal(t, "", v)
}

func TestResolveDefaultLosesToTree(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
db:
  host: db.internal
host: ${db.host:localhost}
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	v, _ := document.Get(resolved, "host")
	require.Equal(t, "db.internal", v)
}

func TestResolveEnvPrecedence(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
server:
  port: 8080
effective: ${server.port}
`)

	r := &placeholder.Resolver{
		Overrides: map[string]string{"SERVER_PORT": "9090"},
	}

	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	// Environment wins over the tree's own value
	v, _ := document.Get(resolved, "effective")
	require.Equal(t, "9090", v)
}

func TestResolveUnresolvedWarning(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
url: ${db.url}
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)

	v, _ := document.Get(resolved, "url")
	require.Equal(t, "${db.url}", v)

	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "${db.url}")
	require.Contains(t, warnings[0], "DB_URL")
}

func TestResolveCircularWarning(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
a: ${b}
b: ${a}
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)

	v, _ := document.Get(resolved, "a")
	require.Equal(t, "${b}", v)

	require.NotEmpty(t, warnings)
	for _, w := range warnings {
		require.Contains(t, w, "circular")
	}
}

func TestResolveSelfReference(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
a: ${a}
`)

	r := &placeholder.Resolver{}
	_, warnings := r.Resolve(config)

	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "circular")
	require.Contains(t, warnings[0], "a -> a")
}

func TestResolveCircularWithDefaultSettles(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
a: ${b:fallback}
b: ${a}
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	a, _ := document.Get(resolved, "a")
	require.Equal(t, "fallback", a)

	b, _ := document.Get(resolved, "b")
	require.Equal(t, "fallback", b)
}

func TestResolveVCAP(t *testing.T) {
	t.Parallel()

	cfg := vcap.New()
	require.NoError(t, cfg.LoadServices([]byte(`{
  "user-provided": [{"name": "my-db", "credentials": {"uri": "postgres://db/app"}}]
}`)))

	config := parseConfig(t, `
url: ${vcap.services.my-db.credentials.uri}
`)

	r := &placeholder.Resolver{VCAP: cfg}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	v, _ := document.Get(resolved, "url")
	require.Equal(t, "postgres://db/app", v)
}

func TestResolveVCAPNotSuppliedWarning(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
url: ${vcap.services.my-db.credentials.uri}
`)

	r := &placeholder.Resolver{}
	_, warnings := r.Resolve(config)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "VCAP")

	r = &placeholder.Resolver{IgnoreVCAPWarnings: true}
	_, warnings = r.Resolve(config)
	require.Empty(t, warnings)
}

func TestResolveMappingNeverSubstitutes(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
section:
  key: value
ref: ${section:fallback}
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	// A mapping referent cannot substitute; the default applies
	v, _ := document.Get(resolved, "ref")
	require.Equal(t, "fallback", v)
}

func TestResolveInsideSequences(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
host: example.com
urls:
  - https://${host}/a
  - https://${host}/b
`)

	r := &placeholder.Resolver{}
	resolved, warnings := r.Resolve(config)
	require.Empty(t, warnings)

	urls, _ := document.Get(resolved, "urls")
	require.Equal(t, []any{"https://example.com/a", "https://example.com/b"}, urls)
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
a: demo
b: ${a}
`)

	r := &placeholder.Resolver{}
	resolved, _ := r.Resolve(config)

	v, _ := document.Get(resolved, "b")
	require.Equal(t, "demo", v)

	v, _ = document.Get(config, "b")
	require.Equal(t, "${a}", v)
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()

	config := parseConfig(t, `
a: demo
b: ${a}
c: ${missing:x}
`)

	r := &placeholder.Resolver{}
	once, _ := r.Resolve(config)
	twice, _ := r.Resolve(once)

	require.Equal(t, document.ToPlain(once), document.ToPlain(twice))
}
