package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// DefaultShell is used when OSRunner.Shell is empty.
const DefaultShell = "/bin/sh"

// OSRunner runs commands with "<shell> -c <command>".
type OSRunner struct {
	// Shell is the path of the shell, DefaultShell if empty.
	Shell string
	// Stdin is connected to the child, nothing is connected if nil.
	Stdin io.Reader
}

var _ Runner = (*OSRunner)(nil)

// Run implements Runner.Run.
func (r *OSRunner) Run(ctx context.Context, command string, env []string) (*Result, error) {
	shell := r.Shell
	if shell == "" {
		shell = DefaultShell
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Env = env
	cmd.Stdin = r.Stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", shell, err)
	}
	return result, nil
}
