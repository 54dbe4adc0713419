package runner

import (
	"errors"
	"fmt"

	"github.com/upkeep-sh/upkeep/internal/execution"
	"github.com/upkeep-sh/upkeep/internal/report"
	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

// Separator announces a step before it runs. Satisfied by terminal.Terminal.
type Separator interface {
	Separator(title string)
}

// Runner invokes steps strictly sequentially, isolates each step's failure
// and accumulates the classified outcomes. One step failing never stops the
// run; that guarantee is the central contract here.
type Runner struct {
	ctx  *execution.Context
	term Separator
}

// New creates a Runner. term may be nil when no separator output is wanted.
func New(ctx *execution.Context, term Separator) *Runner {
	return &Runner{ctx: ctx, term: term}
}

// Run executes the enabled steps in declared order and returns the report.
func (r *Runner) Run(steps []Step) *report.Report {
	rep := report.New()
	log := r.ctx.Logger()

	for _, step := range steps {
		if !r.ctx.Config().StepEnabled(step.Name()) {
			log.WithStep(step.Name()).Debug("disabled by configuration")
			continue
		}

		if r.term != nil {
			r.term.Separator(step.Name())
		}

		outcome := classify(r.invoke(step))
		switch outcome.Class {
		case report.Skipped:
			log.WithStep(step.Name()).Debug(outcome.Detail)
		case report.Ignored:
			log.WithStep(step.Name()).Info(outcome.Detail)
		case report.Failed:
			log.WithStep(step.Name()).Error(outcome.Err, "step failed")
		}

		rep.Add(step.Name(), outcome)
	}

	return rep
}

// invoke shields the loop from a misbehaving step body. A panic becomes a
// regular failure for that step only.
func (r *Runner) invoke(step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("step panicked: %v", p)
		}
	}()
	return step.Run(r.ctx)
}

func classify(err error) report.Outcome {
	switch {
	case err == nil:
		return report.Outcome{Class: report.Succeeded}
	case upkeeperrors.IsSkip(err):
		return report.Outcome{Class: report.Skipped, Detail: upkeeperrors.SkipReason(err)}
	case upkeeperrors.IsIgnored(err):
		var exitErr *upkeeperrors.ExitCodeError
		errors.As(err, &exitErr)
		return report.Outcome{Class: report.Ignored, Detail: fmt.Sprintf("exit status %d accepted", exitErr.Code)}
	default:
		return report.Outcome{Class: report.Failed, Err: err}
	}
}
