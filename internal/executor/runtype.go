package executor

// RunType selects between actually spawning external commands and printing
// the commands that would have run. It is fixed for the duration of a run;
// every step observes the same mode.
type RunType int

const (
	// Execute spawns processes for real.
	Execute RunType = iota
	// DryRun never spawns; commands are traced and reported as successful.
	DryRun
)

// Dry reports whether commands are traced instead of spawned.
func (rt RunType) Dry() bool {
	return rt == DryRun
}

func (rt RunType) String() string {
	if rt == DryRun {
		return "dry-run"
	}
	return "execute"
}
