// Package steps declares the update steps this tool knows about. Each step
// shells out to one external tool; the runner decides whether it applies and
// how its result is classified.
package steps

import (
	"github.com/upkeep-sh/upkeep/internal/runner"
)

// All returns every step in its fixed declared order. The runner filters
// this list against the run configuration.
func All() []runner.Step {
	return []runner.Step{
		runner.NewStep("zr", runZr),
		runner.NewStep("antidote", runAntidote),
		runner.NewStep("antibody", runAntibody),
		runner.NewStep("antigen", runAntigen),
		runner.NewStep("zgenom", runZgenom),
		runner.NewStep("zplug", runZplug),
		runner.NewStep("zinit", runZinit),
		runner.NewStep("zi", runZi),
		runner.NewStep("zim", runZim),
		runner.NewStep("oh-my-zsh", runOhMyZsh),
		runner.NewStep("git-repos", runGitRepos),
	}
}
