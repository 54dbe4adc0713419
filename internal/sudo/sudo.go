package sudo

import (
	"github.com/upkeep-sh/upkeep/internal/executor"
	"github.com/upkeep-sh/upkeep/internal/require"
	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

// Sudo wraps commands that need privilege escalation. Detection happens once
// per run; steps that need root skip themselves when no escalation tool is
// installed.
type Sudo struct {
	path string
}

// Detect locates the first available escalation tool.
func Detect(resolver *require.Resolver) *Sudo {
	for _, name := range []string{"sudo", "doas"} {
		if path, err := resolver.Require(name); err == nil {
			return &Sudo{path: path}
		}
	}
	return &Sudo{}
}

// Available reports whether an escalation tool was found.
func (s *Sudo) Available() bool {
	return s != nil && s.path != ""
}

// Command builds an invocation of path running under the escalation tool.
func (s *Sudo) Command(runType executor.RunType, path string, args ...string) (*executor.Command, error) {
	if !s.Available() {
		return nil, upkeeperrors.NewRequirementMissing("sudo")
	}
	return runType.Command(s.path, append([]string{path}, args...)...), nil
}
