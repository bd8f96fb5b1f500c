package logging

import "fmt"

// LoggerConfig holds logger configuration for the validator CLI.
type LoggerConfig struct {
	DefaultLevel     string            `json:"defaultLevel"`
	Service          string            `json:"service"`
	Component        string            `json:"component,omitempty"`
	Environment      string            `json:"environment"`
	Sinks            []SinkConfig      `json:"sinks"`
	StaticFields     map[string]any    `json:"staticFields,omitempty"`
	EnableCaller     bool              `json:"enableCaller"`
	EnableStacktrace bool              `json:"enableStacktrace"`
}

// SinkConfig defines an output sink.
type SinkConfig struct {
	Type    string             `json:"type"` // console, file
	Level   string             `json:"level,omitempty"`
	Format  string             `json:"format"` // json, text, console
	Console *ConsoleSinkConfig `json:"console,omitempty"`
	File    *FileSinkConfig    `json:"file,omitempty"`
}

// ConsoleSinkConfig configures console output.
type ConsoleSinkConfig struct {
	Stream   string `json:"stream"` // must be "stderr"
	Colorize bool   `json:"colorize"`
}

// FileSinkConfig configures file output with rotation.
type FileSinkConfig struct {
	Path       string `json:"path"`
	MaxSize    int    `json:"maxSize"`    // MB
	MaxAge     int    `json:"maxAge"`     // days
	MaxBackups int    `json:"maxBackups"` // number of old files to keep
	Compress   bool   `json:"compress"`
}

// DefaultConfig returns a default logger configuration: stderr console only.
func DefaultConfig(service string) *LoggerConfig {
	return &LoggerConfig{
		DefaultLevel: "INFO",
		Service:      service,
		Environment:  "cli",
		Sinks: []SinkConfig{
			{
				Type:   "console",
				Format: "console",
				Console: &ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
		StaticFields:     make(map[string]any),
		EnableCaller:     false,
		EnableStacktrace: false,
	}
}

// validateConsoleSinks ensures console sinks only write to stderr.
func validateConsoleSinks(sinks []SinkConfig) error {
	for _, sink := range sinks {
		if sink.Type == "console" && sink.Console != nil &&
			sink.Console.Stream != "stderr" && sink.Console.Stream != "" {
			return fmt.Errorf("console sink must use stderr (stdout is forbidden), got: %s", sink.Console.Stream)
		}
	}
	return nil
}
