// Command psychds-validate validates a Psych-DS dataset directory against
// the Psych-DS schema and reports the result as text or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/psych-ds/psychds-validator/internal/errs"
	"github.com/psych-ds/psychds-validator/internal/xdgconfig"
	"github.com/psych-ds/psychds-validator/logging"
	"github.com/psych-ds/psychds-validator/validator"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns a process exit code. Per the
// validator's output contract, a failed dataset validation is never a
// CLI failure: it is reported in the JSON/text payload with exit 0.
// Only a hard failure to execute the run at all (bad flags, an
// unreadable dataset directory, a schema that cannot be loaded) exits 1.
func run(args []string) int {
	fs := flag.NewFlagSet("psychds-validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	jsonOutput := fs.Bool("json", false, "emit the result as JSON instead of a text report")
	schemaFlag := fs.String("schema", "latest", "schema version or URL to validate against")
	fs.StringVar(schemaFlag, "s", "latest", "shorthand for --schema")
	schemaPath := fs.String("schema-file", "", "local schema file to validate against, overriding --schema")
	verbose := fs.Bool("verbose", false, "enable verbose (INFO-level) logging")
	fs.BoolVar(verbose, "v", false, "shorthand for --verbose")
	showWarnings := fs.Bool("showWarnings", false, "include warnings alongside errors in text output")
	fs.BoolVar(showWarnings, "w", false, "shorthand for --showWarnings")
	debugLevel := fs.String("debug", "ERROR", "log level: NOTSET, DEBUG, INFO, WARNING, ERROR, or CRITICAL")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: psychds-validate [flags] <dataset_directory>\n\nflags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	positional := fs.Args()
	if len(positional) != 1 {
		fs.Usage()
		return 1
	}
	datasetDir := positional[0]

	logger, err := logging.NewCLI("psychds-validate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		return 1
	}
	defer logger.Sync()
	logger.SetLevel(resolveLevel(*debugLevel, *verbose))

	opts := validator.Options{SchemaVersion: *schemaFlag, SchemaPath: *schemaPath}
	if override, ok := xdgconfig.SchemaOverridePath(); ok && opts.SchemaPath == "" && *schemaFlag == "latest" {
		opts.SchemaVersion = override
	}

	logger.Info("starting validation", zap.String("dataset", datasetDir), zap.String("schema", opts.SchemaVersion))

	result, err := validator.Run(context.Background(), datasetDir, opts)
	if err != nil {
		logger.Error("validation run failed", zap.Error(err))
		reportFatal(err, datasetDir, opts.SchemaVersion, *jsonOutput)
		return 1
	}

	if *jsonOutput {
		printJSON(result)
	} else {
		printText(result, *showWarnings)
	}
	return 0
}

// resolveLevel maps the --debug flag (and the legacy --verbose shorthand)
// onto the logging package's Severity scale. NOTSET silences nothing in
// zap terms; it is treated as the most permissive (DEBUG) level.
func resolveLevel(debug string, verbose bool) logging.Severity {
	if verbose {
		return logging.INFO
	}
	switch strings.ToUpper(debug) {
	case "NOTSET", "DEBUG":
		return logging.DEBUG
	case "INFO":
		return logging.INFO
	case "WARNING", "WARN":
		return logging.WARN
	case "CRITICAL", "FATAL":
		return logging.FATAL
	case "ERROR":
		return logging.ERROR
	default:
		return logging.ERROR
	}
}

// reportFatal builds a structured ErrorEnvelope for a hard run failure (a
// Go error, not a validation issue) and renders it the same way --json
// picked for the happy path: JSON on stdout when requested, a one-line
// message on stderr otherwise.
func reportFatal(err error, datasetDir, schemaVersion string, jsonOutput bool) {
	envelope := errs.NewErrorEnvelope("VALIDATION_RUN_FAILED", err.Error()).
		WithPath(datasetDir).
		WithCorrelationID(errs.GenerateCorrelationID()).
		WithOriginal(err)
	envelope = errs.SafeWithSeverity(envelope, errs.SeverityCritical)
	envelope = errs.SafeWithContext(envelope, map[string]interface{}{"schema": schemaVersion})

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(envelope); encErr != nil {
			fmt.Fprintf(os.Stderr, "psychds-validate: %s\n", envelope.Error())
		}
		return
	}
	fmt.Fprintf(os.Stderr, "psychds-validate: %s\n", envelope.Error())
}

func printJSON(result *validator.Result) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "psychds-validate: failed to encode result: %v\n", err)
	}
}

func printText(result *validator.Result, showWarnings bool) {
	if result.Valid {
		fmt.Println("This dataset appears to be psych-DS compatible.")
	} else {
		fmt.Println("This dataset is not valid psych-DS.")
	}

	if len(result.Issues.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, issue := range result.Issues.Errors {
			printIssue(issue)
		}
	}
	if showWarnings && len(result.Issues.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, issue := range result.Issues.Warnings {
			printIssue(issue)
		}
	}

	s := result.Summary
	fmt.Printf("\nSummary:\n  files: %d\n  size: %d bytes\n  data types: %s\n  schema version: %s\n",
		s.TotalFiles, s.Size, strings.Join(s.DataTypes, ", "), s.SchemaVersion)
}

func printIssue(issue validator.IssueOutput) {
	fmt.Printf("  [%s] %s\n", issue.Key, issue.Reason)
	for _, f := range issue.Files {
		if f.Evidence != "" {
			fmt.Printf("    %s: %s\n", f.Path, f.Evidence)
		} else {
			fmt.Printf("    %s\n", f.Path)
		}
	}
}
