package runner

import (
	"github.com/upkeep-sh/upkeep/internal/execution"
)

// Step is one independently invocable update unit. A nil return means the
// step succeeded; skip and accepted-exit conditions are conveyed through the
// typed errors in pkg/errors.
type Step interface {
	Name() string
	Run(ctx *execution.Context) error
}

type stepFunc struct {
	name string
	fn   func(ctx *execution.Context) error
}

// NewStep wraps a function as a named Step.
func NewStep(name string, fn func(ctx *execution.Context) error) Step {
	return &stepFunc{name: name, fn: fn}
}

func (s *stepFunc) Name() string { return s.name }

func (s *stepFunc) Run(ctx *execution.Context) error { return s.fn(ctx) }
