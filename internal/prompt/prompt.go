package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C or declining the
// final confirmation).
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a basic text input prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no style prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// TextAreaConfig configures a multi-line text prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// Driver abstracts the terminal interaction so flows can be tested without a
// real terminal and callers can swap implementations.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
}

type surveyDriver struct{}

// NewDriver returns the survey-backed Driver used by the CLI.
func NewDriver() Driver {
	return &surveyDriver{}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		opts = append(opts, survey.WithValidator(func(value any) error {
			text, _ := value.(string)
			return cfg.Validator(text)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// ProjectDetails is the answer set collected by the project creation flow.
type ProjectDetails struct {
	Name        string
	Path        string
	Description string
}

// CollectProjectDetails walks the interactive project creation flow, asking
// only for fields the caller has not pre-filled. Declining the final
// confirmation returns ErrAborted.
func CollectProjectDetails(ctx context.Context, driver Driver, seed ProjectDetails) (ProjectDetails, error) {
	if driver == nil {
		return ProjectDetails{}, errors.New("prompt: driver is required")
	}

	details := seed

	if strings.TrimSpace(details.Name) == "" {
		name, err := driver.Input(ctx, InputConfig{
			Message: "Project name:",
			Help:    "Shown in listings and used to pick the active project.",
			Validator: func(value string) error {
				if strings.TrimSpace(value) == "" {
					return errors.New("name must not be empty")
				}
				return nil
			},
		})
		if err != nil {
			return ProjectDetails{}, err
		}
		details.Name = strings.TrimSpace(name)
	}

	if strings.TrimSpace(details.Path) == "" {
		path, err := driver.Input(ctx, InputConfig{
			Message: "Dataset path:",
			Default: "project.yaml",
			Help:    "Location of the YAML project description.",
		})
		if err != nil {
			return ProjectDetails{}, err
		}
		details.Path = strings.TrimSpace(path)
	}

	if strings.TrimSpace(details.Description) == "" {
		description, err := driver.TextArea(ctx, TextAreaConfig{
			Message: "Description (optional):",
		})
		if err != nil {
			return ProjectDetails{}, err
		}
		details.Description = strings.TrimSpace(description)
	}

	ok, err := driver.Confirm(ctx, ConfirmConfig{
		Message: "Register project \"" + details.Name + "\"?",
		Default: true,
	})
	if err != nil {
		return ProjectDetails{}, err
	}
	if !ok {
		return ProjectDetails{}, ErrAborted
	}

	return details, nil
}
