package runner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/upkeep-sh/upkeep/internal/config"
	"github.com/upkeep-sh/upkeep/internal/execution"
	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/gitrepo"
	"github.com/upkeep-sh/upkeep/internal/platform"
	requirepkg "github.com/upkeep-sh/upkeep/internal/require"
	"github.com/upkeep-sh/upkeep/internal/report"
	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

type recordingSeparator struct {
	titles []string
}

func (s *recordingSeparator) Separator(title string) {
	s.titles = append(s.titles, title)
}

func testContext(t *testing.T, cfg *config.Config) *execution.Context {
	t.Helper()
	ctx, err := execution.NewContext(execution.Params{
		RunType:  executor.Execute,
		Resolver: requirepkg.NewResolver(),
		BaseDirs: platform.BaseDirs{Home: t.TempDir()},
		Git:      gitrepo.NewUpdater(executor.Execute, nil, 1),
		Config:   cfg,
	})
	require.NoError(t, err)
	return ctx
}

func classes(entries []report.Entry) []report.Classification {
	out := make([]report.Classification, len(entries))
	for i, e := range entries {
		out[i] = e.Outcome.Class
	}
	return out
}

func TestRunIsolatesFailures(t *testing.T) {
	ran := []string{}
	mkStep := func(name string, err error) Step {
		return NewStep(name, func(*execution.Context) error {
			ran = append(ran, name)
			return err
		})
	}

	steps := []Step{
		mkStep("a", nil),
		mkStep("b", fmt.Errorf("tool blew up")),
		mkStep("c", nil),
	}

	rep := New(testContext(t, nil), nil).Run(steps)

	require.Equal(t, []string{"a", "b", "c"}, ran, "a failure must not stop the run")

	entries := rep.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, []report.Classification{report.Succeeded, report.Failed, report.Succeeded}, classes(entries))
	require.EqualError(t, entries[1].Outcome.Err, "tool blew up")
	require.Equal(t, 1, rep.ExitCode())
}

func TestRunClassifications(t *testing.T) {
	steps := []Step{
		NewStep("present", func(*execution.Context) error { return nil }),
		NewStep("absent", func(*execution.Context) error { return upkeeperrors.NewRequirementMissing("zr") }),
		NewStep("not-applicable", func(*execution.Context) error { return upkeeperrors.NewSkip("no .zshrc") }),
		NewStep("restart-required", func(*execution.Context) error { return upkeeperrors.NewAcceptedExitCode("upgrade.sh", 80) }),
		NewStep("broken", func(*execution.Context) error { return upkeeperrors.NewExitCode("update", 1) }),
	}

	rep := New(testContext(t, nil), nil).Run(steps)

	entries := rep.Entries()
	require.Equal(t, []report.Classification{
		report.Succeeded, report.Skipped, report.Skipped, report.Ignored, report.Failed,
	}, classes(entries))

	require.Equal(t, "zr is not installed", entries[1].Outcome.Detail)
	require.Equal(t, "no .zshrc", entries[2].Outcome.Detail)
	require.Equal(t, "exit status 80 accepted", entries[3].Outcome.Detail)
	require.Equal(t, report.Counts{Succeeded: 1, Skipped: 2, Ignored: 1, Failed: 1}, rep.Counts())
}

func TestRunSkippedAndIgnoredKeepExitCodeZero(t *testing.T) {
	steps := []Step{
		NewStep("a", func(*execution.Context) error { return nil }),
		NewStep("b", func(*execution.Context) error { return upkeeperrors.NewRequirementMissing("b-tool") }),
		NewStep("c", func(*execution.Context) error { return upkeeperrors.NewAcceptedExitCode("c-tool", 80) }),
	}

	rep := New(testContext(t, nil), nil).Run(steps)
	require.Equal(t, []report.Classification{report.Succeeded, report.Skipped, report.Ignored}, classes(rep.Entries()))
	require.Equal(t, 0, rep.ExitCode())
}

func TestRunHonorsConfigFilter(t *testing.T) {
	ran := []string{}
	mkStep := func(name string) Step {
		return NewStep(name, func(*execution.Context) error {
			ran = append(ran, name)
			return nil
		})
	}

	cfg := &config.Config{Disable: []string{"skip-me"}}
	rep := New(testContext(t, cfg), nil).Run([]Step{mkStep("run-me"), mkStep("skip-me")})

	require.Equal(t, []string{"run-me"}, ran)
	require.Len(t, rep.Entries(), 1, "disabled steps produce no report entry")
}

func TestRunPrintsSeparatorPerInvokedStep(t *testing.T) {
	sep := &recordingSeparator{}
	cfg := &config.Config{Disable: []string{"hidden"}}

	steps := []Step{
		NewStep("visible", func(*execution.Context) error { return nil }),
		NewStep("hidden", func(*execution.Context) error { return nil }),
		NewStep("failing", func(*execution.Context) error { return fmt.Errorf("nope") }),
	}

	New(testContext(t, cfg), sep).Run(steps)
	require.Equal(t, []string{"visible", "failing"}, sep.titles)
}

func TestRunRecoversFromPanickingStep(t *testing.T) {
	steps := []Step{
		NewStep("panics", func(*execution.Context) error { panic("boom") }),
		NewStep("after", func(*execution.Context) error { return nil }),
	}

	rep := New(testContext(t, nil), nil).Run(steps)

	entries := rep.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, report.Failed, entries[0].Outcome.Class)
	require.Contains(t, entries[0].Outcome.Err.Error(), "boom")
	require.Equal(t, report.Succeeded, entries[1].Outcome.Class)
}
