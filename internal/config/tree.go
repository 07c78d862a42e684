package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tree is an arbitrary YAML document addressed by slash-separated key
// paths, the shape config-data files (custom settings, switcher state)
// take instead of a fixed schema. It mirrors the Traverse/ConfigItem model
// of the implementation it was ported from: a node is either a scalar, a
// sequence, or a map, and Traverse walks one path segment per map level.
type Tree struct {
	root any
}

// LoadTree reads a YAML document into a Tree.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &Tree{root: root}, nil
}

// NewTree wraps an already-decoded value (e.g. from a test literal).
func NewTree(root any) *Tree { return &Tree{root: root} }

// Traverse walks a "/"-separated key path through nested maps, returning
// the node found there, or false if any segment is missing or the path
// runs through a non-map node.
func (t *Tree) Traverse(key string) (any, bool) {
	var node any = t.root
	if key == "" {
		return node, node != nil
	}
	for _, segment := range strings.Split(key, "/") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// IsNull reports whether key is absent or explicitly null.
func (t *Tree) IsNull(key string) bool {
	v, ok := t.Traverse(key)
	return !ok || v == nil
}

// GetBool reads a boolean leaf.
func (t *Tree) GetBool(key string) (bool, bool) {
	v, ok := t.Traverse(key)
	if !ok {
		return false, false
	}
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	default:
		return false, false
	}
}

// GetInt reads an integer leaf.
func (t *Tree) GetInt(key string) (int, bool) {
	v, ok := t.Traverse(key)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	default:
		return 0, false
	}
}

// GetDouble reads a floating-point leaf.
func (t *Tree) GetDouble(key string) (float64, bool) {
	v, ok := t.Traverse(key)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// GetString reads a string leaf.
func (t *Tree) GetString(key string) (string, bool) {
	v, ok := t.Traverse(key)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

// GetList reads a sequence node.
func (t *Tree) GetList(key string) ([]any, bool) {
	v, ok := t.Traverse(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

// GetMap reads a map node.
func (t *Tree) GetMap(key string) (map[string]any, bool) {
	v, ok := t.Traverse(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// SetValue writes a scalar at key, creating intermediate maps as needed.
// Used by the Levers custom-settings API (spec §6.1); callers are
// responsible for persisting the tree back to disk afterward.
func (t *Tree) SetValue(key string, value any) error {
	segments := strings.Split(key, "/")
	if len(segments) == 0 {
		return fmt.Errorf("config: empty key")
	}
	rootMap, ok := t.root.(map[string]any)
	if !ok {
		rootMap = make(map[string]any)
		t.root = rootMap
	}
	m := rootMap
	for _, segment := range segments[:len(segments)-1] {
		next, ok := m[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[segment] = next
		}
		m = next
	}
	m[segments[len(segments)-1]] = value
	return nil
}

// Marshal serializes the tree back to YAML bytes.
func (t *Tree) Marshal() ([]byte, error) {
	return yaml.Marshal(t.root)
}
