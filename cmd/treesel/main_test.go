package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/treesel/internal/app"
)

const goSource = `package main

func main() {
	fmt.Println(add(1, 2))
}
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config="}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestParseAt(t *testing.T) {
	tests := []struct {
		in        string
		line, col int
		wantErr   bool
	}{
		{"4:17", 4, 17, false},
		{"1:0", 1, 0, false},
		{"0:3", 0, 0, true},
		{"4:-1", 0, 0, true},
		{"4", 0, 0, true},
		{"a:b", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			line, col, err := parseAt(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadPosition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestSelectCommand(t *testing.T) {
	file := writeTemp(t, "main.go", goSource)

	out, err := execute(t, "select", file, "--at", "4:17", "--ops", "init,expand,shrink,inner")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"init\tvisual\t[4:17-4:18)\t\"1\"\n"+
		"nodeIncremental\tvisual\t[4:17-4:21)\t\"1, 2\"\n"+
		"nodeDecremental\tvisual\t[4:17-4:18)\t\"1\"\n"+
		"visualInner\tvisual\t[4:17-4:18)\t\"1\"\n", out)
}

func TestSelectCount(t *testing.T) {
	file := writeTemp(t, "main.go", goSource)

	out, err := execute(t, "select", file, "--at", "4:17", "--count", "4")
	require.NoError(t, err)
	assert.Equal(t, "init\tvisual\t[4:13-4:22)\t\"add(1, 2)\"\n", out)
}

func TestSelectErrors(t *testing.T) {
	file := writeTemp(t, "main.go", goSource)

	_, err := execute(t, "select", file, "--ops", "everything")
	assert.ErrorIs(t, err, app.ErrUnknownAction)

	_, err = execute(t, "select", file, "--at", "four")
	assert.ErrorIs(t, err, errBadPosition)

	_, err = execute(t, "select", filepath.Join(t.TempDir(), "missing.go"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "select")
	assert.Error(t, err)
}

func TestKeysCommand(t *testing.T) {
	file := writeTemp(t, "main.go", goSource)

	out, err := execute(t, "keys", file, "--at", "4:17", "gnn", "2grn", "g")
	require.NoError(t, err)
	assert.Equal(t, ""+
		"init\tvisual\t[4:17-4:18)\t\"1\"\n"+
		"nodeIncremental\tvisual\t[4:16-4:22)\t\"(1, 2)\"\n"+
		"pending\tg\n", out)
}

func TestRunCommand(t *testing.T) {
	file := writeTemp(t, "main.go", goSource)
	script := writeTemp(t, "select.lua", `
selection.init_selection(4)
local r = selection.range()
print(r.start_line, r.start_col, editor.text())
`)

	out, err := execute(t, "run", file, "--at", "4:17", "--script", script)
	require.NoError(t, err)
	assert.Equal(t, "4\t13\tadd(1, 2)\n", out)

	_, err = execute(t, "run", file)
	assert.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	file := writeTemp(t, "main.go", goSource)

	out, err := execute(t, "select", file, "--at", "4:17", "--ops", "init,expand,expand", "-o", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.True(t, gjson.Valid(line), line)
	}

	last := gjson.Parse(lines[2])
	assert.Equal(t, "selection.nodeIncremental", last.Get("action").String())
	assert.Equal(t, "visual", last.Get("mode").String())
	assert.True(t, last.Get("changed").Bool())
	assert.Equal(t, "(1, 2)", last.Get("text").String())
	assert.Equal(t, []int64{4, 16, 4, 22}, []int64{
		last.Get("range.0").Int(), last.Get("range.1").Int(),
		last.Get("range.2").Int(), last.Get("range.3").Int(),
	})

	out, err = execute(t, "keys", file, "--at", "4:17", "-o", "json", "v<Esc>")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "normal", gjson.Get(lines[1], "mode").String())

	_, err = execute(t, "select", file, "-o", "yaml")
	assert.ErrorIs(t, err, errBadFormat)
}
