package report

import (
	"sync"
)

// Classification is the terminal state of one invoked step.
type Classification int

const (
	// Succeeded marks a step that completed without error.
	Succeeded Classification = iota
	// Skipped marks a step that was not applicable (tool absent, directory
	// missing). Never counted as a failure.
	Skipped
	// Ignored marks a step whose tool exited with a declared-acceptable
	// nonzero status.
	Ignored
	// Failed marks any other error.
	Failed
)

func (c Classification) String() string {
	switch c {
	case Succeeded:
		return "ok"
	case Skipped:
		return "skipped"
	case Ignored:
		return "ignored"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one step.
type Outcome struct {
	Class  Classification
	Detail string
	Err    error
}

// Entry pairs a step name with its outcome.
type Entry struct {
	Step    string
	Outcome Outcome
}

// Report accumulates step outcomes in the order steps ran. Append-only;
// writes are serialized so finer-grained workers may report through it.
type Report struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an empty report.
func New() *Report {
	return &Report{}
}

// Add appends one step's outcome.
func (r *Report) Add(step string, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Step: step, Outcome: outcome})
}

// Entries returns a copy of the ordered outcomes.
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Counts tallies outcomes per classification.
type Counts struct {
	Succeeded int
	Skipped   int
	Ignored   int
	Failed    int
}

// Counts returns the per-classification totals.
func (r *Report) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()

	var counts Counts
	for _, entry := range r.entries {
		switch entry.Outcome.Class {
		case Succeeded:
			counts.Succeeded++
		case Skipped:
			counts.Skipped++
		case Ignored:
			counts.Ignored++
		case Failed:
			counts.Failed++
		}
	}
	return counts
}

// HasFailures reports whether any step failed. Skipped and ignored outcomes
// do not count.
func (r *Report) HasFailures() bool {
	return r.Counts().Failed > 0
}

// ExitCode maps the report onto the process exit code.
func (r *Report) ExitCode() int {
	if r.HasFailures() {
		return 1
	}
	return 0
}
