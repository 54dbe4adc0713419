package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upkeep-sh/upkeep/internal/config"
	"github.com/upkeep-sh/upkeep/internal/execution"
	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/gitrepo"
	"github.com/upkeep-sh/upkeep/internal/logger"
	"github.com/upkeep-sh/upkeep/internal/platform"
	"github.com/upkeep-sh/upkeep/internal/require"
	"github.com/upkeep-sh/upkeep/internal/runner"
	"github.com/upkeep-sh/upkeep/internal/steps"
	"github.com/upkeep-sh/upkeep/internal/sudo"
	"github.com/upkeep-sh/upkeep/internal/terminal"
)

type rootFlags struct {
	dryRun     bool
	verbose    bool
	only       []string
	disable    []string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "upkeep",
		Short:         "upkeep updates everything on your machine in one run",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(flags)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Print the commands that would run without executing them")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().StringSliceVar(&flags.only, "only", nil, "Run only the named steps")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "Skip the named steps")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to the configuration file")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// mergeFlags overlays command-line flags onto the loaded configuration.
// Flags win over the file.
func mergeFlags(cfg *config.Config, flags *rootFlags) *config.Config {
	if flags.dryRun {
		cfg.DryRun = true
	}
	if flags.verbose {
		cfg.Verbose = true
	}
	if len(flags.only) > 0 {
		cfg.Only = flags.only
	}
	if len(flags.disable) > 0 {
		cfg.Disable = append(cfg.Disable, flags.disable...)
	}
	return cfg
}

func runUpdate(flags *rootFlags) error {
	baseDirs, err := platform.NewBaseDirs()
	if err != nil {
		return err
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = baseDirs.ConfigJoin("upkeep", "upkeep.yaml")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = mergeFlags(cfg, flags)

	level := "info"
	if cfg.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Pretty: true})
	if err != nil {
		return err
	}

	runType := executor.Execute
	if cfg.DryRun {
		runType = executor.DryRun
	}

	resolver := require.NewResolver()
	ctx, err := execution.NewContext(execution.Params{
		Ctx:      context.Background(),
		RunType:  runType,
		Resolver: resolver,
		BaseDirs: baseDirs,
		Git:      gitrepo.NewUpdater(runType, log, cfg.Git.Parallel),
		Sudo:     sudo.Detect(resolver),
		Logger:   log,
		Config:   cfg,
	})
	if err != nil {
		return err
	}

	term := terminal.New(os.Stdout)
	rep := runner.New(ctx, term).Run(steps.All())
	term.Summary(rep)

	if rep.HasFailures() {
		return fmt.Errorf("%d step(s) failed", rep.Counts().Failed)
	}
	return nil
}
