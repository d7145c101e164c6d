// Package tool is the boundary to external command-line collaborators. A
// tool either exits zero and produces its promised artifacts, or exits
// non-zero; nothing else about its behavior is interpreted here.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Result holds the output and exit status from a command execution.
type Result struct {
	Combined string
	ExitCode int
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (*Result, error)
}

// ExecRunner runs commands through os/exec, capturing interleaved
// stdout/stderr for diagnostics.
type ExecRunner struct {
	workingDir string
	env        map[string]string
	tee        io.Writer // optional live copy of tool output
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithWorkingDir sets the working directory for executed commands.
func WithWorkingDir(dir string) Option {
	return func(r *ExecRunner) {
		r.workingDir = dir
	}
}

// WithEnv adds environment variables on top of the current environment.
func WithEnv(env map[string]string) Option {
	return func(r *ExecRunner) {
		r.env = env
	}
}

// WithTee streams tool output to w while still capturing it.
func WithTee(w io.Writer) Option {
	return func(r *ExecRunner) {
		r.tee = w
	}
}

// NewExecRunner creates a runner for external commands.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the command and waits for it to exit. The command is never
// interrupted mid-flight beyond context cancellation; retry policy is the
// caller's concern.
func (r *ExecRunner) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}

	if len(r.env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range r.env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var combined bytes.Buffer

	var out io.Writer = &combined
	if r.tee != nil {
		out = io.MultiWriter(&combined, r.tee)
	}

	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()

	result := &Result{Combined: combined.String()}

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}

	if err != nil {
		return result, fmt.Errorf("command %s failed: %w", program, err)
	}

	return result, nil
}

// Available reports whether the program can be found on PATH.
func Available(program string) bool {
	_, err := exec.LookPath(program)
	return err == nil
}
