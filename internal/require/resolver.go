package require

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

// Resolver locates external tools on the search path and memoizes the result
// for the remainder of the run. Lookups are safe for concurrent use.
type Resolver struct {
	mu     sync.Mutex
	lookup func(string) (string, error)
	cache  map[string]lookupResult
}

type lookupResult struct {
	path  string
	found bool
}

// NewResolver creates a Resolver backed by exec.LookPath.
func NewResolver() *Resolver {
	return &Resolver{
		lookup: exec.LookPath,
		cache:  make(map[string]lookupResult),
	}
}

// Require resolves name to an absolute path, or returns a
// RequirementMissingError when the tool is not installed. Both hits and
// misses are cached, so the result is stable for the whole run even if the
// environment changes underneath.
func (r *Resolver) Require(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("requirement name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.cache[name]; ok {
		if !res.found {
			return "", upkeeperrors.NewRequirementMissing(name)
		}
		return res.path, nil
	}

	path, err := r.lookup(name)
	if err != nil {
		r.cache[name] = lookupResult{}
		return "", upkeeperrors.NewRequirementMissing(name)
	}

	r.cache[name] = lookupResult{path: path, found: true}
	return path, nil
}

// RequirePath checks that path exists on disk and returns it, or a SkipError
// when it does not. Used for directory preconditions such as ~/.oh-my-zsh.
func RequirePath(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", upkeeperrors.NewSkip(fmt.Sprintf("%s does not exist", path))
		}
		return "", fmt.Errorf("cannot access %s: %w", path, err)
	}
	return path, nil
}

// ResolveDir resolves a tool's directory by checking an environment variable
// first, then an optional probe (typically asking the user's shell to expand
// the variable), then a fallback path. The probe runs only when the variable
// is unset in this process, and probe failures fall through to the fallback.
func ResolveDir(envVar string, probe func() (string, error), fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	if probe != nil {
		if v, err := probe(); err == nil {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return fallback
}
