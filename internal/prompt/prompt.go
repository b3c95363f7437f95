// Package prompt asks the user to choose between options on a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoOptions is returned when there is nothing to choose from.
	ErrNoOptions = errors.New("prompt: no options")
)

// SelectConfig configures a single choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// Driver abstracts the terminal so selection flows can be tested without one.
type Driver interface {
	Select(ctx context.Context, cfg SelectConfig) (int, error)
}

// Survey returns the terminal Driver. Extra options such as survey.WithStdio
// apply to every prompt.
func Survey(opts ...survey.AskOpt) Driver {
	return &surveyDriver{opts: opts}
}

type surveyDriver struct {
	opts []survey.AskOpt
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	if err := survey.AskOne(prompt, &out, d.opts...); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(cfg.Options, out), nil
}

// Choose asks driver to pick one of names. A single name is returned without
// prompting.
func Choose(ctx context.Context, driver Driver, message string, names []string) (string, error) {
	switch len(names) {
	case 0:
		return "", ErrNoOptions
	case 1:
		return names[0], nil
	}
	if driver == nil {
		return "", errors.New("prompt: driver is nil")
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message:  message,
		Options:  names,
		PageSize: 15,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(names) {
		return "", fmt.Errorf("prompt: selection %d out of range", idx)
	}
	return names[idx], nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
