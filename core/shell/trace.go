package shell

import (
	"context"
	"fmt"
	"io"
)

// Trace reads a batch file without running it, writing each executable line
// and the command it decodes to. Lines that would be echoed are marked with
// "+". Only ECHO ON/OFF and SHIFT take effect, so GOTO, CALL and IF are
// reported but never followed.
func (s *Shell) Trace(ctx context.Context, w io.Writer, path string, args []string) error {
	base, err := s.startBatch(path, args)
	if err != nil {
		return err
	}
	defer s.unwind(base)

	for s.Processor.Depth() > base {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, shouldEcho, ok := s.Processor.ReadNextLine()
		if !ok {
			continue
		}

		mark := ' '
		if shouldEcho {
			mark = '+'
		}

		cmd := s.Processor.ParseCommand(line)
		if _, err := fmt.Fprintf(w, "%c %s\n    %s\n", mark, line, cmd); err != nil {
			return err
		}
	}
	return nil
}
