// Package cli parses the schemafaker command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-schemafaker/internal/config"
	"github.com/goliatone/go-schemafaker/internal/logging"
)

// Formats lists the accepted -format values.
var Formats = []string{"json", "yaml", "template"}

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line.
type Options struct {
	Schema      string
	Count       int
	Seed        int64
	Format      string
	Template    string
	Sanitize    bool
	Component   string
	Interactive bool
	Validate    bool
	Preset      string
	Output      string
	AllowHTTP   bool
	HTTPTimeout time.Duration
	Missing     string
	MaxDepth    int
	LogLevel    string
	LogFormat   string
}

// Parse processes args over the environment defaults in cfg. The boolean
// result reports that the program should exit cleanly, as after -h.
func Parse(args []string, output io.Writer, cfg config.Config) (*Options, bool, error) {
	flagSet := flag.NewFlagSet("schemafaker", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
schemafaker - generate sample data from JSON schema and OpenAPI documents.

Usage:
  schemafaker [options] SCHEMA

Arguments:
  SCHEMA
    Path or http(s) URL of a JSON or YAML schema, or an OpenAPI document.

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &Options{}
	flagSet.IntVar(&opts.Count, "count", cfg.Count, "Number of samples to generate.")
	flagSet.Int64Var(&opts.Seed, "seed", cfg.Seed, "Random seed. 0 seeds from the clock.")
	flagSet.StringVar(&opts.Format, "format", cfg.Format, "Output format. Options: 'json', 'yaml', 'template'.")
	flagSet.StringVar(&opts.Template, "template", "", "Path to a pongo2 template used by the template format.")
	flagSet.BoolVar(&opts.Sanitize, "sanitize", false, "Sanitise template output as HTML.")
	flagSet.StringVar(&opts.Component, "component", "", "OpenAPI component schema to generate.")
	flagSet.BoolVar(&opts.Interactive, "interactive", false, "Prompt for the OpenAPI component.")
	flagSet.BoolVar(&opts.Validate, "validate", false, "Validate every sample against the schema.")
	flagSet.StringVar(&opts.Preset, "preset", "", "Path to a JSON or YAML document of keypath values pinned on every sample.")
	flagSet.StringVar(&opts.Output, "output", "", "Write to this file instead of stdout.")
	flagSet.BoolVar(&opts.AllowHTTP, "allow-http", cfg.AllowHTTP, "Allow loading schemas over HTTP.")
	flagSet.DurationVar(&opts.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "Timeout for HTTP schema loading.")
	flagSet.StringVar(&opts.Missing, "missing", cfg.Missing, "Missing template key policy. Options: 'error', 'literal'.")
	flagSet.IntVar(&opts.MaxDepth, "max-depth", cfg.MaxDepth, "Maximum schema nesting depth.")
	flagSet.StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flagSet.StringVar(&opts.LogFormat, "log-format", cfg.LogFormat, "Log output format. Options: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected a single SCHEMA argument"}
	}
	opts.Schema = flagSet.Arg(0)

	if err := opts.normalize(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return opts, false, nil
}

func (o *Options) normalize() error {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	o.LogLevel = strings.ToLower(strings.TrimSpace(o.LogLevel))
	o.LogFormat = strings.ToLower(strings.TrimSpace(o.LogFormat))
	o.Missing = strings.ToLower(strings.TrimSpace(o.Missing))

	if o.Template != "" && o.Format == "json" {
		o.Format = "template"
	}

	switch {
	case o.Count < 1:
		return fmt.Errorf("invalid count: must be at least 1, got %d", o.Count)
	case o.MaxDepth < 1:
		return fmt.Errorf("invalid max-depth: must be at least 1, got %d", o.MaxDepth)
	case !slices.Contains(Formats, o.Format):
		return fmt.Errorf("invalid format: must be one of %s", strings.Join(Formats, ", "))
	case o.Format == "template" && o.Template == "":
		return fmt.Errorf("format 'template' requires -template")
	case o.Sanitize && o.Format != "template":
		return fmt.Errorf("-sanitize applies only to the template format")
	case !slices.Contains(logging.Levels, o.LogLevel):
		return fmt.Errorf("invalid log-level: must be one of %s", strings.Join(logging.Levels, ", "))
	case !slices.Contains(logging.Formats, o.LogFormat):
		return fmt.Errorf("invalid log-format: must be 'text' or 'json'")
	case o.Missing != "error" && o.Missing != "literal":
		return fmt.Errorf("invalid missing: must be 'error' or 'literal'")
	case o.Interactive && o.Component != "":
		return fmt.Errorf("-interactive and -component are mutually exclusive")
	}
	return nil
}
