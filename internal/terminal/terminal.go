package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/upkeep-sh/upkeep/internal/report"
)

const fallbackWidth = 80

// Terminal renders the per-step separators and the end-of-run summary.
type Terminal struct {
	out   io.Writer
	width int
}

// New creates a Terminal writing to out. When out is a real terminal its
// width drives the separator length.
func New(out io.Writer) *Terminal {
	width := fallbackWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return &Terminal{out: out, width: width}
}

// Separator announces a step before it runs.
func (t *Terminal) Separator(title string) {
	line := fmt.Sprintf("── %s %s", title, strings.Repeat("─", max(t.width-lipgloss.Width(title)-4, 3)))
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, separatorStyle.Render(line))
}

// Summary renders the full ordered report plus per-classification counts, so
// a scroll-back-free overview is always available at the end of a run.
func (t *Terminal) Summary(r *report.Report) {
	entries := r.Entries()
	if len(entries) == 0 {
		return
	}

	fmt.Fprintln(t.out, summaryStyle.Render("Summary"))
	for _, entry := range entries {
		label := styleFor(entry.Outcome.Class).Render(entry.Outcome.Class.String())
		line := fmt.Sprintf("  %-12s %s", label, entry.Step)
		if detail := entryDetail(entry); detail != "" {
			line += " (" + detail + ")"
		}
		fmt.Fprintln(t.out, line)
	}

	counts := r.Counts()
	fmt.Fprintf(t.out, "\n%d ok, %d skipped, %d ignored, %d failed\n",
		counts.Succeeded, counts.Skipped, counts.Ignored, counts.Failed)
}

func entryDetail(entry report.Entry) string {
	if entry.Outcome.Err != nil {
		return entry.Outcome.Err.Error()
	}
	return entry.Outcome.Detail
}

func styleFor(class report.Classification) lipgloss.Style {
	switch class {
	case report.Succeeded:
		return successStyle
	case report.Skipped:
		return skippedStyle
	case report.Ignored:
		return ignoredStyle
	default:
		return failureStyle
	}
}
