package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// InterpRunner runs commands with an in-process POSIX shell interpreter.
// Programs named by the command are still started as real processes.
type InterpRunner struct {
	// Dir is the working directory, the process's if empty.
	Dir string
	// Stdin is connected to the command, nothing is connected if nil.
	Stdin io.Reader
}

var _ Runner = (*InterpRunner)(nil)

// Run implements Runner.Run.
func (r *InterpRunner) Run(ctx context.Context, command string, env []string) (*Result, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(r.Stdin, &stdout, &stderr),
	}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("couldn't create interpreter: %w", err)
	}

	err = runner.Run(ctx, prog)
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if status, ok := interp.IsExitStatus(err); ok {
		result.ExitCode = int(status)
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
