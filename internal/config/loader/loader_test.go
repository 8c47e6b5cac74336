package loader

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS is an in-memory FileSystem.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

const tomlConfig = `
[selection]
pairs = ["()", "{}"]
disabled = ["markdown"]

[keymaps]
initSelection = "gnn"

[parser]
cacheTTL = "5m"
`

const yamlConfig = `
selection:
  pairs:
    - "()"
    - open: "{"
      close: "}"
  disabled: [markdown]
logging:
  level: debug
parser:
  maxBytes: 1024
`

func TestTOMLLoader(t *testing.T) {
	l := NewTOMLLoaderWithFS(memFS{"/c.toml": tomlConfig}, "/c.toml")
	assert.Equal(t, "toml", l.Format())
	assert.Equal(t, "/c.toml", l.Path())

	m, err := l.Load()
	require.NoError(t, err)

	sel := m["selection"].(map[string]any)
	assert.Equal(t, []any{"()", "{}"}, sel["pairs"])
	assert.Equal(t, []any{"markdown"}, sel["disabled"])
	assert.Equal(t, "gnn", m["keymaps"].(map[string]any)["initSelection"])
}

func TestYAMLLoader(t *testing.T) {
	l := NewYAMLLoaderWithFS(memFS{"/c.yaml": yamlConfig}, "/c.yaml")

	m, err := l.Load()
	require.NoError(t, err)

	pairs := m["selection"].(map[string]any)["pairs"].([]any)
	require.Len(t, pairs, 2)
	assert.Equal(t, "()", pairs[0])
	assert.Equal(t, map[string]any{"open": "{", "close": "}"}, pairs[1])
	assert.Equal(t, "debug", m["logging"].(map[string]any)["level"])
	assert.Equal(t, int64(1024), m["parser"].(map[string]any)["maxBytes"])
}

func TestLoaderMissingFile(t *testing.T) {
	for _, path := range []string{"/none.toml", "/none.yaml"} {
		l, err := ForPathWithFS(memFS{}, path)
		require.NoError(t, err)
		m, err := l.Load()
		assert.NoError(t, err)
		assert.Nil(t, m)
	}
}

func TestLoaderEmptyFile(t *testing.T) {
	l := NewYAMLLoaderWithFS(memFS{"/c.yml": ""}, "/c.yml")
	m, err := l.Load()
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoaderParseError(t *testing.T) {
	l := NewTOMLLoaderWithFS(memFS{"/c.toml": "[selection\npairs = 1"}, "/c.toml")

	_, err := l.Load()
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/c.toml", pe.Path)
	assert.Equal(t, 1, pe.Line)
	assert.Contains(t, err.Error(), "/c.toml")

	_, err = NewYAMLLoaderWithFS(memFS{"/c.yaml": "a: [b"}, "/c.yaml").Load()
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "yaml", pe.Format)
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"treesel.toml", "toml"},
		{"treesel.yaml", "yaml"},
		{"TREESEL.YML", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, l.Format())
		})
	}

	_, err := ForPath("treesel.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string {
		return []string{
			"TREESEL_LOG_LEVEL=debug",
			"TREESEL_DISABLED=markdown,text",
			"TREESEL_PAIRS=[\"()\",\"[]\"]",
			"TREESEL_PARSER_CACHE_TTL=90s",
			"TREESEL_KEYMAPS_INIT_SELECTION=gs",
			"TREESEL_UI_MOUSE=off",
			"TREESEL_=ignored",
			"HOME=/root",
		}
	}
	l.AddMapping("TREESEL_LEADER", "keymaps.leader")

	m, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"level": "debug"}, m["logging"])
	sel := m["selection"].(map[string]any)
	assert.Equal(t, "markdown,text", sel["disabled"])
	assert.Equal(t, []any{"()", "[]"}, sel["pairs"])
	assert.Equal(t, "90s", m["parser"].(map[string]any)["cacheTTL"])
	assert.Equal(t, "gs", m["keymaps"].(map[string]any)["initSelection"])
	assert.Equal(t, false, m["ui"].(map[string]any)["mouse"])
	assert.NotContains(t, m, "home")
	assert.Len(t, m, 5)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"yes", true},
		{"Off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"250ms", "250ms"},
		{`{"a":1}`, map[string]any{"a": float64(1)}},
		{"[oops", "[oops"},
		{"gnn", "gnn"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
}
