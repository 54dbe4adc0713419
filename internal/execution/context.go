package execution

import (
	"context"
	"fmt"

	"github.com/upkeep-sh/upkeep/internal/config"
	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/gitrepo"
	"github.com/upkeep-sh/upkeep/internal/logger"
	"github.com/upkeep-sh/upkeep/internal/platform"
	"github.com/upkeep-sh/upkeep/internal/require"
	"github.com/upkeep-sh/upkeep/internal/sudo"
)

// Context bundles everything a step needs for one run: the run mode, the
// requirement cache, base directories and collaborator handles. It is built
// once by the driver and read-only to steps; every step shares the same
// instance.
type Context struct {
	ctx      context.Context
	runType  executor.RunType
	resolver *require.Resolver
	baseDirs platform.BaseDirs
	git      *gitrepo.Updater
	sudo     *sudo.Sudo
	log      *logger.Logger
	cfg      *config.Config
}

// Params collects the collaborators assembled by the driver.
type Params struct {
	Ctx      context.Context
	RunType  executor.RunType
	Resolver *require.Resolver
	BaseDirs platform.BaseDirs
	Git      *gitrepo.Updater
	Sudo     *sudo.Sudo
	Logger   *logger.Logger
	Config   *config.Config
}

// NewContext validates the parameter bundle and freezes it into a Context.
func NewContext(params Params) (*Context, error) {
	if params.Resolver == nil {
		return nil, fmt.Errorf("execution context requires a resolver")
	}
	if params.Git == nil {
		return nil, fmt.Errorf("execution context requires a git updater")
	}
	if params.BaseDirs.Home == "" {
		return nil, fmt.Errorf("execution context requires base directories")
	}
	if params.Ctx == nil {
		params.Ctx = context.Background()
	}
	if params.Config == nil {
		params.Config = config.Default()
	}

	return &Context{
		ctx:      params.Ctx,
		runType:  params.RunType,
		resolver: params.Resolver,
		baseDirs: params.BaseDirs,
		git:      params.Git,
		sudo:     params.Sudo,
		log:      params.Logger,
		cfg:      params.Config,
	}, nil
}

// Ctx returns the run's base context.
func (c *Context) Ctx() context.Context { return c.ctx }

// RunType returns the run mode shared by every step.
func (c *Context) RunType() executor.RunType { return c.runType }

// Require resolves an external tool through the run's memoized resolver.
func (c *Context) Require(name string) (string, error) {
	return c.resolver.Require(name)
}

// BaseDirs returns the directory roots for path resolution.
func (c *Context) BaseDirs() platform.BaseDirs { return c.baseDirs }

// Git returns the bulk repository updater.
func (c *Context) Git() *gitrepo.Updater { return c.git }

// Sudo returns the privilege-escalation collaborator.
func (c *Context) Sudo() *sudo.Sudo { return c.sudo }

// Logger returns the run logger.
func (c *Context) Logger() *logger.Logger { return c.log }

// Config returns the run configuration.
func (c *Context) Config() *config.Config { return c.cfg }
