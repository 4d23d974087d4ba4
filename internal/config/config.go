package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/eugenenazirov/confighelper/internal/serializer"
)

const envPrefix = "CONFIGHELPER_"

// ErrInvalidSettings is returned when the resolved settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings tunes the confighelper binary.
// Precedence: CLI flags > Environment variables > Defaults
type Settings struct {
	MaxPasses       int               `env:"MAX_PASSES" envDefault:"10"`
	MaxIncludeDepth int               `env:"MAX_INCLUDE_DEPTH" envDefault:"32"`
	Strict          bool              `env:"STRICT" envDefault:"false"`
	LogLevel        string            `env:"LOG_LEVEL" envDefault:"info"`
	OutputFormat    serializer.Format `env:"OUTPUT_FORMAT" envDefault:"yaml"`
	Indent          int               `env:"INDENT" envDefault:"2"`
}

// CLIOverrides holds command-line flag overrides. Nil fields were not given.
type CLIOverrides struct {
	MaxPasses       *int
	MaxIncludeDepth *int
	Strict          *bool
	LogLevel        *string
	OutputFormat    *string
	Indent          *int
}

// Load resolves settings from the process environment and overrides.
func Load(overrides *CLIOverrides) (Settings, error) {
	return load(overrides, nil)
}

func load(overrides *CLIOverrides, environ map[string]string) (Settings, error) {
	var settings Settings
	opts := env.Options{Prefix: envPrefix, Environment: environ}
	if err := env.ParseWithOptions(&settings, opts); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}

	if overrides != nil {
		if err := applyCLIOverrides(&settings, overrides); err != nil {
			return Settings{}, err
		}
	}

	if err := validateSettings(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(settings *Settings, overrides *CLIOverrides) error {
	if overrides.MaxPasses != nil {
		settings.MaxPasses = *overrides.MaxPasses
	}
	if overrides.MaxIncludeDepth != nil {
		settings.MaxIncludeDepth = *overrides.MaxIncludeDepth
	}
	if overrides.Strict != nil {
		settings.Strict = *overrides.Strict
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		settings.LogLevel = *overrides.LogLevel
	}
	if overrides.OutputFormat != nil && *overrides.OutputFormat != "" {
		format, err := serializer.ParseFormat(*overrides.OutputFormat)
		if err != nil {
			return fmt.Errorf("parse output format: %w", err)
		}
		settings.OutputFormat = format
	}
	if overrides.Indent != nil {
		settings.Indent = *overrides.Indent
	}
	return nil
}

// validateSettings validates the final settings.
func validateSettings(settings Settings) error {
	if settings.MaxPasses < 1 {
		return fmt.Errorf("%w: max passes must be >= 1", ErrInvalidSettings)
	}
	if settings.MaxIncludeDepth < 1 {
		return fmt.Errorf("%w: max include depth must be >= 1", ErrInvalidSettings)
	}
	if settings.Indent < 0 {
		return fmt.Errorf("%w: indent must be >= 0", ErrInvalidSettings)
	}
	if _, err := serializer.ParseFormat(string(settings.OutputFormat)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
