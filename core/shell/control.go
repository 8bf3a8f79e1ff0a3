package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/josephlewis42/dosbatch/core/batch"
	"github.com/josephlewis42/dosbatch/core/dosfs"
)

func (s *Shell) runIf(ctx context.Context, c batch.If) {
	var (
		ok      bool
		command string
	)

	switch c.Condition {
	case batch.ConditionExist:
		var path string
		path, command = splitFirst(c.Rest)
		ok = s.FS.Exists(path)

	case batch.ConditionErrorLevel:
		var level string
		level, command = splitFirst(c.Rest)
		n, err := strconv.Atoi(level)
		if err != nil {
			s.log.Warn().Str("level", level).Msg("bad ERRORLEVEL")
			fmt.Fprintln(s.Stdout, "Syntax error")
			return
		}
		ok = s.ErrorLevel >= n

	case batch.ConditionCompare:
		left, right, _ := strings.Cut(c.Rest, "==")
		right, command = splitFirst(right)
		ok = strings.TrimSpace(left) == right

	default:
		s.log.Warn().Stringer("condition", c.Condition).Msg("unknown IF condition")
		return
	}

	if c.Negate {
		ok = !ok
	}
	s.log.Debug().Stringer("condition", c.Condition).Bool("result", ok).Msg("IF")

	if ok && command != "" {
		s.execute(ctx, s.Processor.ParseCommand(command))
	}
}

func (s *Shell) runFor(ctx context.Context, c batch.For) {
	if s.inFor {
		fmt.Fprintln(s.Stdout, "FOR cannot be nested")
		return
	}
	s.inFor = true
	defer func() { s.inFor = false }()

	for _, item := range s.forItems(c.Set()) {
		if s.stopped() || ctx.Err() != nil {
			return
		}

		line := strings.ReplaceAll(c.Command, c.Variable, item)
		base := s.Processor.Depth()
		s.execute(ctx, s.Processor.ParseCommand(line))

		// A batch file CALLed by this item finishes before the next item.
		if s.Processor.Depth() > base {
			s.inFor = false
			err := s.run(ctx, base)
			s.inFor = true
			if err != nil {
				return
			}
		}
	}
}

// forItems expands wildcards in a FOR set into matching file names. The
// directory is kept the way it was typed.
func (s *Shell) forItems(set []string) []string {
	var out []string
	for _, item := range set {
		if !dosfs.HasWildcards(item) {
			out = append(out, item)
			continue
		}

		matches, err := s.FS.Glob(item)
		if err != nil {
			s.log.Debug().Str("pattern", item).Err(err).Msg("FOR glob failed")
			continue
		}

		dir, _ := dosfs.Split(item)
		for _, match := range matches {
			_, name := dosfs.Split(match)
			out = append(out, dosfs.Join(dir, name))
		}
	}
	return out
}
