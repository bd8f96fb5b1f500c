package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadJSONFile reads a JSON schema file from disk, returning its raw bytes.
func LoadJSONFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename) // #nosec G304 -- user-supplied -s/--schema path
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return data, nil
}

// LoadYAMLFile reads a YAML schema file and converts it to the JSON bytes
// the rest of the package (accessor, validator, document merge) expects.
func LoadYAMLFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename) // #nosec G304 -- user-supplied -s/--schema path
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var yamlData interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}

	jsonData, err := json.Marshal(yamlData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON for %s: %w", filename, err)
	}

	return jsonData, nil
}

// LoadSchemaFile loads a local schema document, dispatching on extension
// between LoadYAMLFile and LoadJSONFile — the path LoadFile takes when a
// user points --schema-file at a file on disk instead of a version string.
func LoadSchemaFile(filename string) ([]byte, error) {
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return LoadYAMLFile(filename)
	}
	return LoadJSONFile(filename)
}
