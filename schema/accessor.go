package schema

import "strings"

// Presence tags the result of a dotted-path lookup against a schema document.
type Presence int

const (
	// Absent means no node exists at the requested path.
	Absent Presence = iota
	// Present means a node (of any JSON type) exists at the requested path.
	Present
)

// Value is the result of a dotted-path lookup: a tagged Present/Absent
// variant wrapping the resolved node when Present. This is the sole
// access pattern every engine package uses against a loaded schema
// document or a per-file sidecar.
type Value struct {
	presence Presence
	node     interface{}
}

// Presence reports whether the value was found.
func (v Value) Presence() Presence { return v.presence }

// IsPresent reports whether the lookup found a node.
func (v Value) IsPresent() bool { return v.presence == Present }

// Node returns the underlying JSON-decoded node and whether it was present.
func (v Value) Node() (interface{}, bool) {
	return v.node, v.presence == Present
}

// String returns the node as a string, or "" if absent or not a string.
func (v Value) String() string {
	s, _ := v.node.(string)
	return s
}

// Bool returns the node as a bool, or false if absent or not a bool.
func (v Value) Bool() bool {
	b, _ := v.node.(bool)
	return b
}

// StringSlice returns the node as a []string. A JSON array of strings
// converts element-wise; a single string becomes a one-element slice
// (the schema's own documents are inconsistent about this, per design note).
func (v Value) StringSlice() []string {
	switch n := v.node.(type) {
	case []interface{}:
		out := make([]string, 0, len(n))
		for _, e := range n {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{n}
	default:
		return nil
	}
}

// Map returns the node as a map[string]interface{}, or nil if absent or not an object.
func (v Value) Map() map[string]interface{} {
	m, _ := v.node.(map[string]interface{})
	return m
}

// absentValue is the shared zero value for lookup misses.
var absentValue = Value{presence: Absent}

// Accessor provides dotted-path lookups into a JSON document tree, the
// access pattern used throughout the schema-driven rule engine instead of
// a runtime proxy object.
type Accessor struct {
	root map[string]interface{}
}

// NewAccessor wraps an already-decoded JSON object for dotted-path lookup.
func NewAccessor(root map[string]interface{}) Accessor {
	return Accessor{root: root}
}

// Get resolves a dotted path (e.g. "rules.files.tabular_data.data.Datafile")
// by splitting on "." and descending through nested objects. Any missing
// segment, or a segment that resolves to a non-object before the path is
// exhausted, yields Absent.
func (a Accessor) Get(path string) Value {
	if a.root == nil {
		return absentValue
	}
	segments := strings.Split(path, ".")
	var current interface{} = a.root
	for _, seg := range segments {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return absentValue
		}
		next, ok := obj[seg]
		if !ok {
			return absentValue
		}
		current = next
	}
	return Value{presence: Present, node: current}
}

// Root returns the raw decoded document.
func (a Accessor) Root() map[string]interface{} {
	return a.root
}

// Sub returns an Accessor scoped to the object at path, or a zero-valued
// (empty) Accessor if path is absent or not an object.
func (a Accessor) Sub(path string) Accessor {
	v := a.Get(path)
	return Accessor{root: v.Map()}
}
