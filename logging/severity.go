package logging

import "go.uber.org/zap/zapcore"

// Severity is a log level name, carried as a string so it round-trips
// through CLI flags and config files without a custom JSON encoding.
type Severity string

const (
	TRACE Severity = "TRACE"
	DEBUG Severity = "DEBUG"
	INFO  Severity = "INFO"
	WARN  Severity = "WARN"
	ERROR Severity = "ERROR"
	FATAL Severity = "FATAL"
)

// ToZapLevel maps a Severity onto the zap level the core filters on. TRACE
// has no zap equivalent, so it shares zap's DebugLevel; Logger.Trace then
// emits through zap's Debug call, matching the mapping here.
func (s Severity) ToZapLevel() zapcore.Level {
	switch s {
	case TRACE, DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a severity string, defaulting to INFO for anything
// unrecognized rather than rejecting a malformed level string in a
// LoggerConfig or sink config.
func ParseSeverity(s string) Severity {
	switch s {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}
