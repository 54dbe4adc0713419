package steps

import (
	"fmt"
	"path/filepath"

	"github.com/upkeep-sh/upkeep/internal/execution"
	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/gitrepo"
	"github.com/upkeep-sh/upkeep/internal/require"
)

// zdotdir resolves the directory zsh reads its startup files from.
func zdotdir(ctx *execution.Context) string {
	return require.ResolveDir("ZDOTDIR", nil, ctx.BaseDirs().Home)
}

func zshrc(ctx *execution.Context) string {
	return filepath.Join(zdotdir(ctx), ".zshrc")
}

func runZr(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	if _, err := ctx.Require("zr"); err != nil {
		return err
	}

	cmd := fmt.Sprintf("source %s && zr --update", zshrc(ctx))
	return ctx.RunType().Command(zsh, "-l", "-c", cmd).StatusChecked()
}

func runAntidote(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	antidote, err := require.RequirePath(filepath.Join(zdotdir(ctx), ".antidote"))
	if err != nil {
		return err
	}

	script := filepath.Join(antidote, "antidote.zsh")
	cmd := fmt.Sprintf("source %s && antidote update", script)
	return ctx.RunType().Command(zsh, "-c", cmd).StatusChecked()
}

func runAntibody(ctx *execution.Context) error {
	if _, err := ctx.Require("zsh"); err != nil {
		return err
	}
	antibody, err := ctx.Require("antibody")
	if err != nil {
		return err
	}

	return ctx.RunType().Command(antibody, "update").StatusChecked()
}

func runAntigen(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	rc, err := require.RequirePath(zshrc(ctx))
	if err != nil {
		return err
	}
	adot := require.ResolveDir("ADOTDIR", nil, ctx.BaseDirs().HomeJoin("antigen.zsh"))
	if _, err := require.RequirePath(adot); err != nil {
		return err
	}

	cmd := fmt.Sprintf("source %s && (antigen selfupdate ; antigen update)", rc)
	return ctx.RunType().Command(zsh, "-l", "-c", cmd).StatusChecked()
}

func runZgenom(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	rc, err := require.RequirePath(zshrc(ctx))
	if err != nil {
		return err
	}
	source := require.ResolveDir("ZGEN_SOURCE", nil, ctx.BaseDirs().HomeJoin(".zgenom"))
	if _, err := require.RequirePath(source); err != nil {
		return err
	}

	cmd := fmt.Sprintf("source %s && zgenom selfupdate && zgenom update", rc)
	return ctx.RunType().Command(zsh, "-l", "-c", cmd).StatusChecked()
}

func runZplug(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	if _, err := require.RequirePath(zshrc(ctx)); err != nil {
		return err
	}
	home := require.ResolveDir("ZPLUG_HOME", nil, ctx.BaseDirs().HomeJoin(".zplug"))
	if _, err := require.RequirePath(home); err != nil {
		return err
	}

	return ctx.RunType().Command(zsh, "-i", "-c", "zplug update").StatusChecked()
}

func runZinit(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	rc, err := require.RequirePath(zshrc(ctx))
	if err != nil {
		return err
	}
	home := require.ResolveDir("ZINIT_HOME", nil, ctx.BaseDirs().HomeJoin(".zinit"))
	if _, err := require.RequirePath(home); err != nil {
		return err
	}

	cmd := fmt.Sprintf("source %s && zinit self-update && zinit update --all", rc)
	return ctx.RunType().Command(zsh, "-i", "-c", cmd).StatusChecked()
}

func runZi(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	rc, err := require.RequirePath(zshrc(ctx))
	if err != nil {
		return err
	}
	if _, err := require.RequirePath(ctx.BaseDirs().HomeJoin(".zi")); err != nil {
		return err
	}

	cmd := fmt.Sprintf("source %s && zi self-update && zi update --all", rc)
	return ctx.RunType().Command(zsh, "-i", "-c", cmd).StatusChecked()
}

func runZim(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}

	home := require.ResolveDir("ZIM_HOME", func() (string, error) {
		return executor.Probe(zsh, "-c", "[[ -n ${ZIM_HOME} ]] && print -n ${ZIM_HOME}")
	}, ctx.BaseDirs().HomeJoin(".zim"))
	if _, err := require.RequirePath(home); err != nil {
		return err
	}

	return ctx.RunType().Command(zsh, "-i", "-c", "zimfw upgrade && zimfw update").StatusChecked()
}

// acceptedOhMyZshRestart is the status oh-my-zsh's upgrade script exits with
// to request a shell restart.
const acceptedOhMyZshRestart = 80

func runOhMyZsh(ctx *execution.Context) error {
	zsh, err := ctx.Require("zsh")
	if err != nil {
		return err
	}
	ohMyZsh, err := require.RequirePath(ctx.BaseDirs().HomeJoin(".oh-my-zsh"))
	if err != nil {
		return err
	}

	customDir := require.ResolveDir("ZSH_CUSTOM", func() (string, error) {
		return executor.Probe(zsh, "-c", "test $ZSH_CUSTOM && echo -n $ZSH_CUSTOM")
	}, filepath.Join(ohMyZsh, "custom"))
	ctx.Logger().WithStep("oh-my-zsh").WithFields(map[string]any{"custom_dir": customDir}).Debug("resolved custom dir")

	custom := gitrepo.NewRepositorySet()
	if err := custom.InsertUnder(customDir, 2); err != nil {
		return err
	}
	custom.Remove(ohMyZsh)

	if !custom.IsEmpty() {
		ctx.Logger().WithStep("oh-my-zsh").Info("pulling custom plugins and themes")
		results := ctx.Git().MultiPull(ctx.Ctx(), custom)
		if failed := gitrepo.FailedCount(results); failed > 0 {
			return fmt.Errorf("%d of %d custom plugins failed to update", failed, len(results))
		}
	}

	return ctx.RunType().
		Command(zsh, filepath.Join(ohMyZsh, "tools", "upgrade.sh")).
		Env("ZSH", ohMyZsh).
		StatusCheckedWithCodes(acceptedOhMyZshRestart)
}
