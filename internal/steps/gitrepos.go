package steps

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/upkeep-sh/upkeep/internal/execution"
	"github.com/upkeep-sh/upkeep/internal/gitrepo"
	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

const repoDiscoveryDepth = 2

// runGitRepos fast-forwards every git checkout found under the configured
// repository roots.
func runGitRepos(ctx *execution.Context) error {
	roots := ctx.Config().Git.Repos
	if len(roots) == 0 {
		return upkeeperrors.NewSkip("no git repositories configured")
	}

	set := gitrepo.NewRepositorySet()
	for _, root := range roots {
		if err := set.InsertUnder(expandHome(root, ctx.BaseDirs().Home), repoDiscoveryDepth); err != nil {
			return err
		}
	}
	if set.IsEmpty() {
		return upkeeperrors.NewSkip("no git repositories found under configured roots")
	}

	results := ctx.Git().MultiPull(ctx.Ctx(), set)
	if failed := gitrepo.FailedCount(results); failed > 0 {
		return fmt.Errorf("%d of %d repositories failed to update", failed, len(results))
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
