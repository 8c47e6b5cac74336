package layer

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "nil dst",
			src:      map[string]any{"a": 1},
			expected: map[string]any{"a": 1},
		},
		{
			name:     "nil src",
			dst:      map[string]any{"a": 1},
			expected: map[string]any{"a": 1},
		},
		{
			name:     "src overrides dst",
			dst:      map[string]any{"a": 1},
			src:      map[string]any{"a": 2},
			expected: map[string]any{"a": 2},
		},
		{
			name: "nested merge",
			dst: map[string]any{
				"selection": map[string]any{"pairs": []any{"()"}},
			},
			src: map[string]any{
				"selection": map[string]any{"disabled": []any{"markdown"}},
			},
			expected: map[string]any{
				"selection": map[string]any{
					"pairs":    []any{"()"},
					"disabled": []any{"markdown"},
				},
			},
		},
		{
			name:     "scalar replaces map",
			dst:      map[string]any{"logging": map[string]any{"level": "info"}},
			src:      map[string]any{"logging": "off"},
			expected: map[string]any{"logging": "off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.dst, tt.src)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("DeepMerge() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDeepMergeDoesNotAlias(t *testing.T) {
	src := map[string]any{"selection": map[string]any{"pairs": []any{"()"}}}
	got := DeepMerge(nil, src)

	got["selection"].(map[string]any)["pairs"].([]any)[0] = "{}"
	if src["selection"].(map[string]any)["pairs"].([]any)[0] != "()" {
		t.Error("DeepMerge should copy nested values")
	}
}

func TestPaths(t *testing.T) {
	data := make(map[string]any)
	SetByPath(data, "keymaps.initSelection", "gnn")
	SetByPath(data, "keymaps.visualInner", "vi")
	SetByPath(data, "parser.cacheTTL", "5m")

	if v, ok := GetByPath(data, "keymaps.initSelection"); !ok || v != "gnn" {
		t.Errorf("GetByPath() = %v, %v", v, ok)
	}
	if _, ok := GetByPath(data, "keymaps.initSelection.deeper"); ok {
		t.Error("GetByPath should not descend into scalars")
	}
	if _, ok := GetByPath(data, ""); ok {
		t.Error("empty path should not resolve")
	}

	flat := Flatten(data)
	if len(flat) != 3 || flat["parser.cacheTTL"] != "5m" {
		t.Errorf("Flatten() = %v", flat)
	}
}

func TestDiff(t *testing.T) {
	old := map[string]any{
		"logging":   map[string]any{"level": "info", "format": "text"},
		"selection": map[string]any{"disabled": []any{"markdown"}},
	}
	updated := map[string]any{
		"logging":   map[string]any{"level": "debug"},
		"selection": map[string]any{"disabled": []any{"markdown"}},
		"parser":    map[string]any{"cacheTTL": "1m"},
	}

	got := Diff(old, updated)
	want := []string{"logging.format", "logging.level", "parser.cacheTTL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}
}

func TestManagerMergesByPriority(t *testing.T) {
	m := NewManager()
	m.Put(NewWithData("env", SourceEnv, map[string]any{
		"logging": map[string]any{"level": "debug"},
	}))
	m.Put(NewWithData("defaults", SourceBuiltin, map[string]any{
		"logging": map[string]any{"level": "info", "format": "text"},
	}))
	m.Put(NewWithData("file", SourceFile, map[string]any{
		"logging": map[string]any{"level": "warn", "format": "json"},
	}))

	if got := m.Names(); !reflect.DeepEqual(got, []string{"defaults", "file", "env"}) {
		t.Errorf("Names() = %v", got)
	}

	merged := m.Merge()
	if v, _ := GetByPath(merged, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
	if v, _ := GetByPath(merged, "logging.format"); v != "json" {
		t.Errorf("logging.format = %v, want json", v)
	}

	v, from, ok := m.Get("logging.format")
	if !ok || v != "json" || from != "file" {
		t.Errorf("Get() = %v, %q, %v", v, from, ok)
	}
	if _, _, ok := m.Get("logging"); ok {
		t.Error("Get should not return sections")
	}
}

func TestManagerReplaceAndRemove(t *testing.T) {
	m := NewManager()
	m.Put(NewWithData("file", SourceFile, map[string]any{"a": 1}))
	m.Put(NewWithData("file", SourceFile, map[string]any{"a": 2}))

	if v, _, _ := m.Get("a"); v != 2 {
		t.Errorf("replaced layer value = %v, want 2", v)
	}
	if len(m.Names()) != 1 {
		t.Errorf("Names() = %v", m.Names())
	}

	m.Set("session", SourceSession, "a", 3)
	if v, from, _ := m.Get("a"); v != 3 || from != "session" {
		t.Errorf("Get() = %v from %q", v, from)
	}

	if !m.Remove("session") {
		t.Error("Remove should report an existing layer")
	}
	if m.Remove("session") {
		t.Error("Remove should report a missing layer")
	}
	if v, _ := GetByPath(m.Merge(), "a"); v != 2 {
		t.Errorf("after remove a = %v, want 2", v)
	}

	l, ok := m.Layer("file")
	if !ok || l.Source.String() != "file" {
		t.Errorf("Layer() = %v, %v", l, ok)
	}
	clone := l.Clone()
	clone.Data["a"] = 9
	if l.Data["a"] != 2 {
		t.Error("Clone should copy data")
	}
}
