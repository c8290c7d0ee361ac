package nesh

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/josephlewis42/nesh/core/config"
)

// MaxScriptDepth limits how deeply RUN NESH may nest.
const MaxScriptDepth = 64

// RunFile runs every line of the script at path in this session. A line that
// fails is reported and the next line runs. A missing script returns a
// *NotFoundError and has no effect.
func (s *Session) RunFile(ctx context.Context, path string) error {
	path = config.ExpandHome(path)
	if s.depth >= MaxScriptDepth {
		return fmt.Errorf("%s: %w", path, ErrScriptDepth)
	}

	fd, err := s.Fs.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &NotFoundError{Path: path}
	case err != nil:
		return err
	}
	defer fd.Close()

	s.depth++
	defer func() { s.depth-- }()
	s.Events.Script(path, s.depth)

	scanner := bufio.NewScanner(fd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if err := s.Eval(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Report(line, err)
		}
		if s.quit {
			break
		}
	}
	return scanner.Err()
}

// LoadRC runs the session's RC script.
func (s *Session) LoadRC(ctx context.Context) error {
	if s.RCPath == "" {
		return nil
	}
	return s.RunFile(ctx, s.RCPath)
}
