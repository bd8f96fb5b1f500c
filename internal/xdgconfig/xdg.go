// Package xdgconfig resolves XDG base directories, a cache directory for
// Psych-DS schema documents, and the psychDS_SCHEMA override. The schema
// loader does not read the cache directory; fetched documents are not cached.
package xdgconfig

import (
	"os"
	"path/filepath"
)

const schemaEnvOverride = "psychDS_SCHEMA"

// XDGBaseDirs holds the resolved XDG base directory paths.
type XDGBaseDirs struct {
	ConfigHome string
	DataHome   string
	CacheHome  string
}

// GetXDGBaseDirs returns the XDG Base Directory paths, falling back to
// $HOME-relative defaults when the XDG_* environment variables are unset.
func GetXDGBaseDirs() XDGBaseDirs {
	return XDGBaseDirs{
		ConfigHome: getXDGConfigHome(),
		DataHome:   getXDGDataHome(),
		CacheHome:  getXDGCacheHome(),
	}
}

func getXDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config")
	}
	return ""
}

func getXDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share")
	}
	return ""
}

func getXDGCacheHome() string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache")
	}
	return ""
}

// SchemaCacheDir resolves a cache directory for fetched schema documents.
// Nothing outside this package's tests calls it.
//
// Resolution order:
//  1. $psychDS_SCHEMA, if set — treated as a direct path to a schema file
//     or directory and returned unchanged (the loader decides how to use it).
//  2. $XDG_CACHE_HOME/psychds-validator/schema (or ~/.cache/psychds-validator/schema).
func SchemaCacheDir() string {
	if override := os.Getenv(schemaEnvOverride); override != "" {
		return override
	}
	xdg := GetXDGBaseDirs()
	if xdg.CacheHome == "" {
		return ""
	}
	return filepath.Join(xdg.CacheHome, "psychds-validator", "schema")
}

// SchemaOverridePath returns the value of $psychDS_SCHEMA and whether it was set.
func SchemaOverridePath() (string, bool) {
	v, ok := os.LookupEnv(schemaEnvOverride)
	return v, ok
}
