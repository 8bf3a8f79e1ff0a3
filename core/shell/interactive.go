package shell

import (
	"context"
	"errors"
	"io"

	"github.com/abiosoft/readline"
)

// LineReader reads interactive command lines, it's satisfied by
// *readline.Instance.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// Interactive reads and runs command lines until EXIT, the end of input or
// cancellation.
func (s *Shell) Interactive(ctx context.Context, rl LineReader) error {
	for !s.Exited() {
		if err := ctx.Err(); err != nil {
			return err
		}

		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return nil

		case errors.Is(err, readline.ErrInterrupt):
			// Interrupt clears line.
			continue

		case err != nil:
			return err
		}

		if err := s.RunLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}
