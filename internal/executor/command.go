package executor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"unicode/utf8"

	upkeeperrors "github.com/upkeep-sh/upkeep/pkg/errors"
)

// Command is a pending external command built against a RunType. In Execute
// mode the finishing calls spawn the process and wait for it; in DryRun mode
// they print a would-run trace and succeed without spawning anything.
type Command struct {
	runType RunType
	path    string
	args    []string
	env     []string
	dir     string
	trace   io.Writer
}

// Command starts building an invocation of the program at path.
func (rt RunType) Command(path string, args ...string) *Command {
	return &Command{
		runType: rt,
		path:    path,
		args:    args,
		trace:   os.Stdout,
	}
}

// Args appends additional arguments.
func (c *Command) Args(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// Env adds a KEY=VALUE override on top of the inherited environment.
func (c *Command) Env(key, value string) *Command {
	c.env = append(c.env, key+"="+value)
	return c
}

// Dir sets the working directory for the spawned process.
func (c *Command) Dir(dir string) *Command {
	c.dir = dir
	return c
}

// TraceTo redirects the dry-run trace away from stdout.
func (c *Command) TraceTo(w io.Writer) *Command {
	c.trace = w
	return c
}

func (c *Command) describe() string {
	parts := make([]string, 0, len(c.env)+1+len(c.args))
	parts = append(parts, c.env...)
	parts = append(parts, c.path)
	parts = append(parts, c.args...)
	return strings.Join(parts, " ")
}

// StatusChecked runs the command and succeeds only on exit status zero.
func (c *Command) StatusChecked() error {
	return c.StatusCheckedWithCodes()
}

// StatusCheckedWithCodes runs the command, treating exit status zero as
// success. A nonzero status in accepted yields an ExitCodeError with Accepted
// set so the runner can classify the step as ignored; any other nonzero
// status is a plain ExitCodeError. The child inherits the terminal so
// interactive tools keep working.
func (c *Command) StatusCheckedWithCodes(accepted ...int) error {
	if c.runType.Dry() {
		fmt.Fprintf(c.trace, "Would run: %s\n", c.describe())
		return nil
	}

	cmd := c.build()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if slices.Contains(accepted, code) {
			return upkeeperrors.NewAcceptedExitCode(c.describe(), code)
		}
		return upkeeperrors.NewExitCode(c.describe(), code)
	}
	return upkeeperrors.NewSpawn(c.describe(), err)
}

// OutputChecked runs the command, requires exit status zero and captures
// stdout as UTF-8 text. Stderr passes through to the terminal.
func (c *Command) OutputChecked() (string, error) {
	if c.runType.Dry() {
		fmt.Fprintf(c.trace, "Would run: %s\n", c.describe())
		return "", nil
	}

	var stdout bytes.Buffer
	cmd := c.build()
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", upkeeperrors.NewExitCode(c.describe(), exitErr.ExitCode())
		}
		return "", upkeeperrors.NewSpawn(c.describe(), err)
	}

	return decodeOutput(c.describe(), stdout.Bytes())
}

func (c *Command) build() *exec.Cmd {
	cmd := exec.Command(c.path, c.args...)
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	return cmd
}

// Probe runs a read-only helper command regardless of RunType and returns its
// trimmed stdout. Used for environment probes such as asking the user's shell
// to expand a variable; these never mutate anything, so dry-run does not
// suppress them.
func Probe(path string, args ...string) (string, error) {
	described := strings.Join(append([]string{path}, args...), " ")

	var stdout bytes.Buffer
	cmd := exec.Command(path, args...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", upkeeperrors.NewExitCode(described, exitErr.ExitCode())
		}
		return "", upkeeperrors.NewSpawn(described, err)
	}

	return decodeOutput(described, stdout.Bytes())
}

func decodeOutput(described string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("`%s` produced non-UTF-8 output", described)
	}
	return strings.TrimSpace(string(raw)), nil
}
