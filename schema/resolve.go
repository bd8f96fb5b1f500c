package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

//go:embed bundled/schema.json
var bundledFS embed.FS

const bundledSchemaPath = "bundled/schema.json"

// schemaVersionURL maps a bare version string (e.g. "1.0.0", "latest") to
// the canonical schema document URL. A caller-supplied value containing
// "://" is treated as an explicit URL and used as-is.
func schemaVersionURL(version string) string {
	if version == "" || version == "latest" {
		version = "latest"
	}
	if strings.Contains(version, "://") {
		return version
	}
	return fmt.Sprintf("https://schema.psychoinformatics.org/%s/schema.json", version)
}

// Document is a loaded, merged schema: the Psych-DS rule tree plus the
// schema.org vocabulary merged under the "schemaOrg" key, exposed through
// the dotted-path Accessor.
type Document struct {
	Accessor
	Version string
	Source  string // "network", "file", or "bundled"
}

// LoaderOptions configures schema resolution.
type LoaderOptions struct {
	// Version is a version string ("1.0.0", "latest") or an explicit URL.
	// Empty means "latest".
	Version string
	// HTTPClient is used for network fetches; defaults to a 10s-timeout client.
	HTTPClient *http.Client
}

// Load resolves a schema document per the version/URL precedence:
// an explicit user-supplied URL or version, falling back to the bundled
// default schema on any network failure. The schema.org vocabulary is
// expected to already be merged under "schemaOrg" in the fetched or
// bundled document (the bundled document ships pre-merged; a fetched
// document is expected to do the same upstream).
func Load(opts LoaderOptions) (*Document, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	url := schemaVersionURL(opts.Version)
	if data, err := fetchURL(client, url); err == nil {
		doc, parseErr := parseDocument(data)
		if parseErr == nil {
			doc.Version = opts.Version
			doc.Source = "network"
			return doc, nil
		}
	}

	// Explicit local file path (no scheme): try to load directly.
	if opts.Version != "" && !strings.Contains(opts.Version, "://") {
		if data, err := os.ReadFile(opts.Version); err == nil { // #nosec G304 -- user-supplied -s/--schema path
			doc, parseErr := parseDocument(data)
			if parseErr == nil {
				doc.Version = opts.Version
				doc.Source = "file"
				return doc, nil
			}
		}
	}

	data, err := bundledFS.ReadFile(bundledSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled fallback schema: %w", err)
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("bundled fallback schema failed to parse: %w", err)
	}
	doc.Version = "bundled"
	doc.Source = "bundled"
	return doc, nil
}

// LoadFile loads a schema document directly from a file path, bypassing
// network resolution (used for the CLI's --schema-file flag, via
// validator.Options.SchemaPath).
func LoadFile(path string) (*Document, error) {
	data, err := LoadSchemaFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	doc.Version = path
	doc.Source = "file"
	return doc, nil
}

func parseDocument(data []byte) (*Document, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &Document{Accessor: NewAccessor(root)}, nil
}

func fetchURL(client *http.Client, url string) ([]byte, error) {
	if !strings.Contains(url, "://") {
		return nil, fmt.Errorf("not a URL: %s", url)
	}
	resp, err := client.Get(url) // #nosec G107 -- schema URL is operator-controlled (-s/--schema or psychDS_SCHEMA), not attacker input
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("schema fetch failed: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
