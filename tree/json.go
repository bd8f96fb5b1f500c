package tree

import (
	"encoding/json"
	"fmt"
)

// parseJSONObject decodes text as a JSON object, rejecting non-object
// top-level values since every Psych-DS metadata file is an object.
func parseJSONObject(text string) (map[string]interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return obj, nil
}
