package validator

import (
	"github.com/psych-ds/psychds-validator/internal/xdgconfig"
	"github.com/psych-ds/psychds-validator/schema"
)

// loadSchema resolves the schema document for a run: an explicit local
// path wins, then opts' version string (network fetch with bundled
// fallback); the psychDS_SCHEMA environment override is used only when
// opts carries no version string.
func loadSchema(opts Options) (schema.Accessor, string, error) {
	if opts.SchemaPath != "" {
		doc, err := schema.LoadFile(opts.SchemaPath)
		if err != nil {
			return schema.Accessor{}, "", err
		}
		return doc.Accessor, doc.Version, nil
	}

	version := opts.SchemaVersion
	if override, ok := xdgconfig.SchemaOverridePath(); ok && version == "" {
		version = override
	}

	doc, err := schema.Load(schema.LoaderOptions{Version: version})
	if err != nil {
		return schema.Accessor{}, "", err
	}
	return doc.Accessor, doc.Version, nil
}
