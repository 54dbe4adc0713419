package gitrepo

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// RepositorySet is a deduplicated collection of git working-tree roots,
// keyed by canonical path. It is built per step invocation and discarded
// afterwards.
type RepositorySet struct {
	repos map[string]struct{}
}

// NewRepositorySet creates an empty set.
func NewRepositorySet() *RepositorySet {
	return &RepositorySet{repos: make(map[string]struct{})}
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// isRepoRoot reports whether path is the root of a git working tree. The
// cheap .git check runs first; go-git confirms the repository actually opens.
func isRepoRoot(path string) bool {
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return false
	}
	_, err := git.PlainOpen(path)
	return err == nil
}

// InsertIfRepo adds path to the set when it is a git working-tree root.
// Inserting the same path twice is a no-op.
func (s *RepositorySet) InsertIfRepo(path string) bool {
	if !isRepoRoot(path) {
		return false
	}
	s.repos[canonical(path)] = struct{}{}
	return true
}

// InsertUnder walks root up to maxDepth directory levels and inserts every
// git working-tree root it finds. Discovery does not descend into
// repositories, so nested checkouts are attributed to their outermost root.
func (s *RepositorySet) InsertUnder(root string, maxDepth int) error {
	root = canonical(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if depthBelow(root, path) > maxDepth {
			return fs.SkipDir
		}
		if s.InsertIfRepo(path) && path != root {
			return fs.SkipDir
		}
		return nil
	})
}

func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Remove drops path from the set if present. Callers use it to exclude a
// framework's own checkout from the plugin set it was discovered alongside.
func (s *RepositorySet) Remove(path string) {
	delete(s.repos, canonical(path))
}

// Len returns the number of distinct repositories in the set.
func (s *RepositorySet) Len() int {
	return len(s.repos)
}

// IsEmpty reports whether the set holds no repositories.
func (s *RepositorySet) IsEmpty() bool {
	return len(s.repos) == 0
}

// Paths returns the repository roots in sorted order.
func (s *RepositorySet) Paths() []string {
	paths := make([]string, 0, len(s.repos))
	for path := range s.repos {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
