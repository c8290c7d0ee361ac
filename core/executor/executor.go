// Package executor runs command strings through a shell and captures their
// output.
package executor

import (
	"context"
	"sort"
	"strings"
)

// Result holds the captured streams of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Trimmed returns stdout without surrounding whitespace.
func (r *Result) Trimmed() string {
	return strings.TrimSpace(r.Stdout)
}

// Runner runs a command string with the given environment.
//
// Run blocks until the command exits and applies no timeout: a command that
// never exits blocks the caller forever. A non-zero exit status is reported
// in Result.ExitCode and is not an error; errors are reserved for failures to
// start the command or to collect its output.
type Runner interface {
	Run(ctx context.Context, command string, env []string) (*Result, error)
}

// MergeEnviron overlays "key=value" pairs from overlay on top of base.
// Keys present in both take the overlay's value. The result is sorted by key.
func MergeEnviron(base, overlay []string) []string {
	merged := make(map[string]string)
	for _, environ := range [][]string{base, overlay} {
		for _, e := range environ {
			split := strings.SplitN(e, "=", 2)
			key, value := split[0], ""
			if len(split) > 1 {
				value = split[1]
			}
			if key == "" {
				continue
			}
			merged[key] = value
		}
	}

	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
