package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-schemafaker/internal/cli"
	"github.com/goliatone/go-schemafaker/internal/config"
	"github.com/goliatone/go-schemafaker/internal/ctxlog"
	"github.com/goliatone/go-schemafaker/internal/loader"
	"github.com/goliatone/go-schemafaker/internal/logging"
	"github.com/goliatone/go-schemafaker/internal/prompt"
	"github.com/goliatone/go-schemafaker/pkg/container"
	"github.com/goliatone/go-schemafaker/pkg/faker"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/orchestrator"
	"github.com/goliatone/go-schemafaker/pkg/output"
	"github.com/goliatone/go-schemafaker/pkg/schema"
	"github.com/goliatone/go-schemafaker/pkg/template"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run holds the command logic so it can be tested without exiting.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	opts, shouldExit, err := cli.Parse(args, stdout, cfg)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger, err := logging.New(opts.LogLevel, opts.LogFormat, stderr)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	src, err := schema.ParseSource(opts.Schema)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	policy, err := template.ParseMissingPolicy(opts.Missing)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	registry := output.Default()
	if opts.Template != "" {
		tmpl, err := output.NewTemplateFile(opts.Template, opts.Sanitize, output.WithGlobalData(map[string]any{
			"count": opts.Count,
			"seed":  opts.Seed,
		}))
		if err != nil {
			return err
		}
		registry.MustRegister(tmpl)
	}

	rng := generators.NewRand(opts.Seed)
	generator := faker.New(
		faker.WithRand(rng),
		faker.WithContainer(generators.NewContainer(rng,
			container.WithLogger(logger),
			container.WithMissingPolicy(policy),
		)),
		faker.WithLogger(logger),
		faker.WithMaxDepth(opts.MaxDepth),
	)

	var loaderOpts []loader.Option
	if opts.AllowHTTP {
		loaderOpts = append(loaderOpts, loader.WithHTTP(opts.HTTPTimeout))
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithLoader(loader.New(loaderOpts...)),
		orchestrator.WithGenerator(generator),
		orchestrator.WithRegistry(registry),
		orchestrator.WithPrompt(prompt.Survey(survey.WithStdio(os.Stdin, os.Stderr, os.Stderr))),
	}
	if opts.Preset != "" {
		data, err := os.ReadFile(opts.Preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		presets, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return err
		}
		orchOpts = append(orchOpts, orchestrator.WithTransformer(presets))
	}

	result, err := orchestrator.New(orchOpts...).Run(ctx, orchestrator.Request{
		Source:      src,
		Component:   opts.Component,
		Interactive: opts.Interactive,
		Count:       opts.Count,
		Format:      opts.Format,
		Validate:    opts.Validate,
	})
	if err != nil {
		return err
	}

	if opts.Output == "" {
		_, err = stdout.Write(result.Output)
		return err
	}
	if err := os.WriteFile(opts.Output, result.Output, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("Samples written.", "path", opts.Output, "count", len(result.Samples), "component", result.Component)
	return nil
}
