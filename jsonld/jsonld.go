// Package jsonld implements the minimal JSON-LD expansion the dataset
// validator needs: rewriting property keys to namespace-qualified IRIs and
// wrapping scalar values in {@value: ...} objects, driven by an inline
// @context mapping rather than a full JSON-LD processor.
package jsonld

import "fmt"

// DefaultContext is used when a document carries no @context of its own;
// it maps every unqualified key to the schema.org namespace, which is the
// only vocabulary Psych-DS datasets use.
var DefaultContext = map[string]interface{}{
	"@vocab": "https://schema.org/",
}

// Expand rewrites doc's keys to namespace-qualified IRIs and wraps scalar
// values, using context (doc's own "@context" entry if present, else
// DefaultContext). Arrays are preserved; nested objects are expanded
// recursively. Returns an error if @context itself is malformed.
func Expand(doc map[string]interface{}) (map[string]interface{}, error) {
	ctx := DefaultContext
	if raw, ok := doc["@context"]; ok {
		parsed, err := parseContext(raw)
		if err != nil {
			return nil, err
		}
		ctx = parsed
	}
	return expandObject(doc, ctx)
}

func parseContext(raw interface{}) (map[string]interface{}, error) {
	switch v := raw.(type) {
	case string:
		return map[string]interface{}{"@vocab": v}, nil
	case map[string]interface{}:
		return v, nil
	case []interface{}:
		merged := map[string]interface{}{}
		for _, entry := range v {
			parsed, err := parseContext(entry)
			if err != nil {
				return nil, err
			}
			for k, val := range parsed {
				merged[k] = val
			}
		}
		return merged, nil
	default:
		return nil, fmt.Errorf("unsupported @context shape: %T", raw)
	}
}

func expandObject(obj map[string]interface{}, ctx map[string]interface{}) (map[string]interface{}, error) {
	vocab, _ := ctx["@vocab"].(string)

	out := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		if key == "@context" {
			continue
		}
		if key == "@type" {
			out[key] = expandTypeValue(value, vocab)
			continue
		}
		if len(key) > 0 && key[0] == '@' {
			out[key] = value
			continue
		}

		iri := resolveKey(key, ctx, vocab)
		out[iri] = expandValue(value, ctx)
	}
	return out, nil
}

// resolveKey rewrites a plain property name to a namespace-qualified IRI
// using an explicit context term mapping, falling back to @vocab + key.
func resolveKey(key string, ctx map[string]interface{}, vocab string) string {
	if term, ok := ctx[key]; ok {
		switch t := term.(type) {
		case string:
			return t
		case map[string]interface{}:
			if id, ok := t["@id"].(string); ok {
				return id
			}
		}
	}
	return vocab + key
}

// expandTypeValue qualifies an @type value (a bare class name or array of
// class names) against vocab, leaving already-qualified IRIs untouched.
func expandTypeValue(value interface{}, vocab string) interface{} {
	switch v := value.(type) {
	case string:
		return qualifyType(v, vocab)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			if s, ok := elem.(string); ok {
				out[i] = qualifyType(s, vocab)
			} else {
				out[i] = elem
			}
		}
		return out
	default:
		return value
	}
}

func qualifyType(class, vocab string) string {
	if class == "" {
		return class
	}
	for _, scheme := range []string{"http://", "https://"} {
		if len(class) >= len(scheme) && class[:len(scheme)] == scheme {
			return class
		}
	}
	return vocab + class
}

// expandValue wraps a scalar in an {@value: ...} object, expands nested
// objects recursively, and maps over arrays element-wise.
func expandValue(value interface{}, ctx map[string]interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		expanded, err := expandObject(v, ctx)
		if err != nil {
			return map[string]interface{}{"@value": fmt.Sprintf("%v", v)}
		}
		return expanded
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = expandValue(elem, ctx)
		}
		return out
	default:
		return map[string]interface{}{"@value": v}
	}
}

// ValueOf extracts the scalar carried by an expanded {@value: ...} node,
// or the @value of its nested name entry when the node instead carries a
// single {@id}-style reference with a name (used for variableMeasured
// entries that reference a PropertyValue by name).
func ValueOf(node interface{}) (interface{}, bool) {
	m, ok := node.(map[string]interface{})
	if !ok {
		return nil, false
	}
	if val, ok := m["@value"]; ok {
		return val, true
	}
	if nameNode, ok := m["https://schema.org/name"]; ok {
		return ValueOf(firstElement(nameNode))
	}
	return nil, false
}

func firstElement(v interface{}) interface{} {
	if arr, ok := v.([]interface{}); ok && len(arr) > 0 {
		return arr[0]
	}
	return v
}
