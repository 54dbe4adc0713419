package steps

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/upkeep-sh/upkeep/internal/config"
	"github.com/upkeep-sh/upkeep/internal/execution"
	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/gitrepo"
	"github.com/upkeep-sh/upkeep/internal/platform"
	requirepkg "github.com/upkeep-sh/upkeep/internal/require"
	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

// stubTool drops an executable shell script on the fake PATH that records
// its invocation by touching a marker file.
func stubTool(t *testing.T, bin, name string) string {
	t.Helper()
	marker := filepath.Join(bin, name+".ran")
	script := "#!/bin/sh\ntouch " + marker + "\nexit 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(script), 0o755))
	return marker
}

func testCtx(t *testing.T, runType executor.RunType, home string, cfg *config.Config) (*execution.Context, *bytes.Buffer) {
	t.Helper()
	var trace bytes.Buffer
	ctx, err := execution.NewContext(execution.Params{
		RunType:  runType,
		Resolver: requirepkg.NewResolver(),
		BaseDirs: platform.BaseDirs{Home: home, Config: filepath.Join(home, ".config"), Data: filepath.Join(home, ".local", "share")},
		Git:      gitrepo.NewUpdater(runType, nil, 1).TraceTo(&trace),
		Config:   cfg,
	})
	require.NoError(t, err)
	return ctx, &trace
}

func TestZshrcFollowsZdotdir(t *testing.T) {
	home := t.TempDir()
	ctx, _ := testCtx(t, executor.DryRun, home, nil)

	t.Setenv("ZDOTDIR", "")
	os.Unsetenv("ZDOTDIR")
	require.Equal(t, filepath.Join(home, ".zshrc"), zshrc(ctx))

	t.Setenv("ZDOTDIR", "/custom/zdot")
	require.Equal(t, filepath.Join("/custom/zdot", ".zshrc"), zshrc(ctx))
}

func TestStepsSkipWhenZshMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	ctx, _ := testCtx(t, executor.Execute, t.TempDir(), nil)

	for name, step := range map[string]func(*execution.Context) error{
		"zr":        runZr,
		"antidote":  runAntidote,
		"antibody":  runAntibody,
		"zplug":     runZplug,
		"oh-my-zsh": runOhMyZsh,
	} {
		err := step(ctx)
		require.Error(t, err, name)
		require.True(t, upkeeperrors.IsSkip(err), name)
	}
}

func TestRunZrSkipsWhenZrMissing(t *testing.T) {
	bin := t.TempDir()
	stubTool(t, bin, "zsh")
	t.Setenv("PATH", bin)

	ctx, _ := testCtx(t, executor.Execute, t.TempDir(), nil)

	err := runZr(ctx)
	require.Error(t, err)

	var missing *upkeeperrors.RequirementMissingError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "zr", missing.Name)
}

func TestRunAntidoteSkipsWithoutDirectory(t *testing.T) {
	bin := t.TempDir()
	stubTool(t, bin, "zsh")
	t.Setenv("PATH", bin)
	t.Setenv("ZDOTDIR", "")
	os.Unsetenv("ZDOTDIR")

	ctx, _ := testCtx(t, executor.Execute, t.TempDir(), nil)

	err := runAntidote(ctx)
	require.Error(t, err)
	require.True(t, upkeeperrors.IsSkip(err))
}

func TestRunOhMyZshSkipsWithoutInstall(t *testing.T) {
	bin := t.TempDir()
	marker := stubTool(t, bin, "zsh")
	t.Setenv("PATH", bin)

	ctx, _ := testCtx(t, executor.Execute, t.TempDir(), nil)

	err := runOhMyZsh(ctx)
	require.Error(t, err)
	require.True(t, upkeeperrors.IsSkip(err))
	require.NoFileExists(t, marker, "no subprocess may run for a skipped step")
}

func TestRunOhMyZshDryRunSpawnsNothing(t *testing.T) {
	bin := t.TempDir()
	marker := stubTool(t, bin, "zsh")
	t.Setenv("PATH", bin)

	home := t.TempDir()
	ohMyZsh := filepath.Join(home, ".oh-my-zsh")
	require.NoError(t, os.MkdirAll(filepath.Join(ohMyZsh, "tools"), 0o755))

	custom := filepath.Join(home, "custom-plugins")
	initRepo(t, filepath.Join(custom, "fzf-tab"))
	t.Setenv("ZSH_CUSTOM", custom)

	ctx, trace := testCtx(t, executor.DryRun, home, nil)

	require.NoError(t, runOhMyZsh(ctx))
	require.Contains(t, trace.String(), "Would pull")
	require.NoFileExists(t, marker, "dry-run must not spawn the upgrade script")
}

func TestRunOhMyZshPropagatesPullFailures(t *testing.T) {
	bin := t.TempDir()
	marker := stubTool(t, bin, "zsh")
	t.Setenv("PATH", bin)

	home := t.TempDir()
	ohMyZsh := filepath.Join(home, ".oh-my-zsh")
	require.NoError(t, os.MkdirAll(filepath.Join(ohMyZsh, "tools"), 0o755))

	// An init-only repository has no origin remote, so its pull must fail.
	custom := filepath.Join(home, "custom-plugins")
	initRepo(t, filepath.Join(custom, "broken-theme"))
	t.Setenv("ZSH_CUSTOM", custom)

	ctx, _ := testCtx(t, executor.Execute, home, nil)

	err := runOhMyZsh(ctx)
	require.Error(t, err)
	require.False(t, upkeeperrors.IsSkip(err))
	require.Contains(t, err.Error(), "1 of 1 custom plugins failed")
	require.NoFileExists(t, marker, "the upgrade script must not run after a failed plugin pull")
}

func TestAllStepsDeclaredOrder(t *testing.T) {
	names := []string{}
	for _, step := range All() {
		names = append(names, step.Name())
	}
	require.Equal(t, []string{
		"zr", "antidote", "antibody", "antigen", "zgenom",
		"zplug", "zinit", "zi", "zim", "oh-my-zsh", "git-repos",
	}, names)
}
