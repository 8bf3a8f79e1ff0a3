// Package shell executes DOS batch commands the way COMMAND.COM does.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"

	"github.com/josephlewis42/dosbatch/core/batch"
	"github.com/josephlewis42/dosbatch/core/dosenv"
	"github.com/josephlewis42/dosbatch/core/dosfs"
)

var (
	// ErrBadCommand is returned when a program can't be found.
	ErrBadCommand = errors.New("bad command or file name")
)

// DefaultExtensions are tried, in order, for programs named without one.
var DefaultExtensions = []string{".COM", ".EXE", ".BAT"}

var _ batch.Environment = (*dosenv.Env)(nil)

// Launcher runs external DOS programs.
type Launcher interface {
	// Launch runs the program at the absolute DOS path with the unparsed
	// command tail and returns its exit code.
	Launch(ctx context.Context, path, args string) (int, error)
}

// LauncherFunc adapts a function to a Launcher.
type LauncherFunc func(ctx context.Context, path, args string) (int, error)

// Launch implements Launcher.Launch.
func (f LauncherFunc) Launch(ctx context.Context, path, args string) (int, error) {
	return f(ctx, path, args)
}

// Program is an external program found while running a batch file.
type Program struct {
	Path string
	Args string
}

// Shell runs batch files and interactive command lines.
//
// A Shell is not safe for concurrent use.
type Shell struct {
	Processor *batch.Processor
	Env       *dosenv.Env
	FS        *dosfs.FS

	// Launcher runs .COM and .EXE files, nil reports them as not executable.
	Launcher Launcher

	Stdin  io.Reader
	Stdout io.Writer

	// Extensions are tried, in order, when searching for programs.
	Extensions []string

	// StopAtProgram stops execution at the first external program instead of
	// launching it, see LaunchedProgram.
	StopAtProgram bool

	// Highlight colors echoed command lines, nil prints them plain.
	Highlight *color.Color

	// Now returns the current time, nil uses time.Now.
	Now func() time.Time

	// ErrorLevel is the exit code of the last external program.
	ErrorLevel int

	log      zerolog.Logger
	launched *Program
	inFor    bool
	exited   bool
}

// New creates a Shell reading batch files from fsys decoded with enc.
func New(logger zerolog.Logger, env *dosenv.Env, fsys *dosfs.FS, enc encoding.Encoding) *Shell {
	return &Shell{
		Processor:  batch.NewProcessor(logger, env, fsys.Opener(enc)),
		Env:        env,
		FS:         fsys,
		Stdout:     io.Discard,
		Extensions: DefaultExtensions,
		log:        logger,
	}
}

// LaunchedProgram returns the program StopAtProgram stopped at, if any.
func (s *Shell) LaunchedProgram() (Program, bool) {
	if s.launched == nil {
		return Program{}, false
	}
	return *s.launched, true
}

// Exited reports whether EXIT was run outside of a batch file.
func (s *Shell) Exited() bool {
	return s.exited
}

// Close exits all running batch files.
func (s *Shell) Close() error {
	return s.Processor.Close()
}

func (s *Shell) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Shell) stopped() bool {
	return s.StopAtProgram && s.launched != nil
}

// RunBatch runs a batch file to completion, including any batch files it
// calls or chains to, and returns the final ERRORLEVEL. A missing extension
// defaults to .BAT.
func (s *Shell) RunBatch(ctx context.Context, path string, args []string) (int, error) {
	base, err := s.startBatch(path, args)
	if err != nil {
		return s.ErrorLevel, err
	}

	return s.ErrorLevel, s.run(ctx, base)
}

func (s *Shell) startBatch(path string, args []string) (int, error) {
	if dosfs.Ext(path) == "" {
		path += ".BAT"
	}

	abs, err := s.FS.Abs(path)
	if err != nil {
		return 0, err
	}
	if info, err := s.FS.Stat(abs); err != nil || info.IsDir() {
		return 0, fmt.Errorf("batch file %s: %w", abs, fs.ErrNotExist)
	}

	base := s.Processor.Depth()
	if !s.Processor.StartBatch(abs, args) {
		return 0, fmt.Errorf("batch file %s: %w", abs, fs.ErrNotExist)
	}
	return base, nil
}

// RunLine runs one interactive command line. Batch files it starts run to
// completion before it returns.
func (s *Shell) RunLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	base := s.Processor.Depth()

	// FOR variables typed at the prompt use a single %.
	if first, _ := splitFirst(line); !strings.EqualFold(first, "FOR") {
		line = s.Processor.Expand(line)
	}

	s.execute(ctx, s.Processor.ParseCommand(line))
	return s.run(ctx, base)
}

// run drives batch files until the context stack is back to base.
func (s *Shell) run(ctx context.Context, base int) error {
	defer s.unwind(base)

	for s.Processor.Depth() > base && !s.stopped() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, shouldEcho, ok := s.Processor.ReadNextLine()
		if !ok {
			continue
		}

		if shouldEcho {
			s.echoLine(line)
		}

		s.execute(ctx, s.Processor.ParseCommand(line))
	}

	return nil
}

func (s *Shell) unwind(base int) {
	for s.Processor.Depth() > base {
		s.Processor.ExitBatch()
	}
}

func (s *Shell) echoLine(line string) {
	text := s.Prompt() + line
	if s.Highlight != nil {
		text = s.Highlight.Sprint(text)
	}
	fmt.Fprintln(s.Stdout, text)
}

// execute runs a single decoded command.
func (s *Shell) execute(ctx context.Context, cmd batch.Command) {
	s.log.Debug().Stringer("command", cmd).Msg("execute")

	switch c := cmd.(type) {
	case batch.Empty, batch.Shift:
		// SHIFT was applied while parsing.

	case batch.PrintMessage:
		fmt.Fprintln(s.Stdout, c.Text)

	case batch.ShowEchoState:
		if c.On {
			fmt.Fprintln(s.Stdout, "ECHO is on")
		} else {
			fmt.Fprintln(s.Stdout, "ECHO is off")
		}

	case batch.SetVariable:
		if err := s.Env.Setenv(c.Name, c.Value); err != nil {
			fmt.Fprintln(s.Stdout, "Syntax error")
		}

	case batch.ShowVariables:
		for _, entry := range s.Env.Environ() {
			fmt.Fprintln(s.Stdout, entry)
		}

	case batch.ShowVariable:
		if val, ok := s.Env.LookupEnv(c.Name); ok {
			fmt.Fprintf(s.Stdout, "%s=%s\n", c.Name, val)
		} else {
			fmt.Fprintf(s.Stdout, "Environment variable %s not defined\n", c.Name)
		}

	case batch.Goto:
		s.gotoLabel(c.Label)

	case batch.CallBatch:
		s.call(ctx, c.Path, c.Args)

	case batch.ExecuteProgram:
		s.runProgram(ctx, c.Name, c.Args)

	case batch.If:
		s.runIf(ctx, c)

	case batch.For:
		s.runFor(ctx, c)

	case batch.Pause:
		s.pause()

	case batch.Exit:
		if s.Processor.IsProcessingBatch() {
			s.Processor.ExitBatch()
		} else {
			s.exited = true
		}

	default:
		s.log.Warn().Stringer("command", cmd).Msg("unknown command")
	}
}

func (s *Shell) gotoLabel(label string) {
	if !s.Processor.IsProcessingBatch() {
		return
	}

	if !s.Processor.GotoLabel(label) {
		s.log.Warn().Str("label", label).Str("path", s.Processor.CurrentBatchPath()).Msg("label not found")
		fmt.Fprintln(s.Stdout, "Label not found")
		s.Processor.ExitBatch()
	}
}

func (s *Shell) pause() {
	fmt.Fprint(s.Stdout, "Press any key to continue . . .")
	if s.Stdin != nil {
		var key [1]byte
		if _, err := io.ReadFull(s.Stdin, key[:]); err != nil {
			s.log.Debug().Err(err).Msg("PAUSE read failed")
		}
	}
	fmt.Fprintln(s.Stdout)
}

// splitArgs splits a command tail into arguments, keeping quotes.
func splitArgs(args string) []string {
	tokens, err := shlex.Split(args, false)
	if err != nil {
		return strings.Fields(args)
	}
	return tokens
}

// splitFirst splits off the first whitespace delimited word.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		return s[:idx], strings.TrimSpace(s[idx+1:])
	}
	return s, ""
}
