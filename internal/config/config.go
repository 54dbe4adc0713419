package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk configuration for a run. Every field has a
// sensible zero value; a missing file means "run everything".
type Config struct {
	DryRun  bool     `yaml:"dry_run,omitempty"`
	Verbose bool     `yaml:"verbose,omitempty"`
	Only    []string `yaml:"only,omitempty" validate:"omitempty,dive,step_name"`
	Disable []string `yaml:"disable,omitempty" validate:"omitempty,dive,step_name"`
	Git     Git      `yaml:"git,omitempty"`
}

// Git tunes the bulk repository updater.
type Git struct {
	// Parallel caps the multi-pull worker pool. Zero means one worker per
	// CPU, capped by the updater's own limit.
	Parallel int `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=32"`
	// Repos lists extra git checkout roots to fast-forward each run.
	Repos []string `yaml:"repos,omitempty"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	stepNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("step_name", func(fl validator.FieldLevel) bool {
			return stepNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{}
}

// Load reads, parses and validates the configuration at path. A nonexistent
// file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := validatorInstance().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// StepEnabled reports whether the named step should run under the only and
// disable lists. Only wins: when set, steps outside it never run.
func (c *Config) StepEnabled(name string) bool {
	if len(c.Only) > 0 && !slices.Contains(c.Only, name) {
		return false
	}
	return !slices.Contains(c.Disable, name)
}
