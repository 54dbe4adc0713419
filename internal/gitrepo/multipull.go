package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	git "github.com/go-git/go-git/v5"

	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/logger"
)

const maxDefaultWorkers = 4

// Updater fast-forwards every repository in a RepositorySet. Pulls are
// independent, so they run on a bounded worker pool; one repository's failure
// never blocks the others.
type Updater struct {
	runType executor.RunType
	log     *logger.Logger
	workers int
	trace   io.Writer
}

// NewUpdater creates an Updater. workers <= 0 selects one worker per CPU,
// capped at a small fixed limit.
func NewUpdater(runType executor.RunType, log *logger.Logger, workers int) *Updater {
	if workers <= 0 {
		workers = min(runtime.NumCPU(), maxDefaultWorkers)
	}
	return &Updater{
		runType: runType,
		log:     log,
		workers: workers,
		trace:   os.Stdout,
	}
}

// TraceTo redirects the dry-run trace away from stdout.
func (u *Updater) TraceTo(w io.Writer) *Updater {
	u.trace = w
	return u
}

// PullResult records the outcome of updating a single repository.
type PullResult struct {
	Path     string
	UpToDate bool
	Err      error
}

// MultiPull updates every repository in the set and returns one result per
// repository, sorted by path so the tally is independent of completion
// order. An empty set returns immediately without touching git. In dry-run
// mode nothing is pulled; each repository is traced instead.
func (u *Updater) MultiPull(ctx context.Context, set *RepositorySet) []PullResult {
	if set == nil || set.IsEmpty() {
		return nil
	}

	paths := set.Paths()

	if u.runType.Dry() {
		results := make([]PullResult, len(paths))
		for i, path := range paths {
			fmt.Fprintf(u.trace, "Would pull: %s\n", path)
			results[i] = PullResult{Path: path}
		}
		return results
	}

	results := make([]PullResult, len(paths))
	sem := make(chan struct{}, u.workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = u.pull(ctx, path)
		}(i, path)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			u.log.Error(res.Err, fmt.Sprintf("failed to pull %s", res.Path))
		}
	}

	return results
}

func (u *Updater) pull(ctx context.Context, path string) PullResult {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return PullResult{Path: path, Err: fmt.Errorf("open %s: %w", path, err)}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return PullResult{Path: path, Err: fmt.Errorf("worktree %s: %w", path, err)}
	}

	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		u.log.WithFields(map[string]any{"repo": path}).Debug("already up to date")
		return PullResult{Path: path, UpToDate: true}
	}
	if err != nil {
		return PullResult{Path: path, Err: fmt.Errorf("pull %s: %w", path, err)}
	}

	u.log.WithFields(map[string]any{"repo": path}).Info("pulled")
	return PullResult{Path: path}
}

// FailedCount tallies the failed pulls in a result set.
func FailedCount(results []PullResult) int {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}
