package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephlewis42/dosbatch/commands"
	"github.com/josephlewis42/dosbatch/core/dosfs"
)

// internal finds a COMMAND.COM program, including forms written without a
// space such as "CD.." or "DIR/W".
func internal(name, args string) (commands.ProgramFunc, string, string, bool) {
	if proc, ok := commands.Lookup(name); ok {
		return proc, name, args, true
	}

	idx := strings.IndexAny(name, `\/.`)
	if idx <= 0 {
		return nil, "", "", false
	}
	rest := name[idx:]
	if rest[0] == '.' && !strings.HasPrefix(rest, "..") {
		return nil, "", "", false
	}

	proc, ok := commands.Lookup(name[:idx])
	if !ok {
		return nil, "", "", false
	}
	return proc, name[:idx], strings.TrimSpace(rest + " " + args), true
}

func (s *Shell) runProgram(ctx context.Context, name, args string) {
	// LOADHIGH runs its argument, there is no upper memory to load into.
	if strings.EqualFold(name, "LH") || strings.EqualFold(name, "LOADHIGH") {
		name, args = splitFirst(args)
		if name == "" {
			fmt.Fprintln(s.Stdout, "Required parameter missing")
			return
		}
		s.runProgram(ctx, name, args)
		return
	}

	if proc, name, args, ok := internal(name, args); ok {
		code := proc(&commands.Process{
			Args:   append([]string{strings.ToUpper(name)}, splitArgs(args)...),
			Stdin:  s.Stdin,
			Stdout: s.Stdout,
			Stderr: s.Stdout,
			Env:    s.Env,
			FS:     s.FS,
			Log:    s.log,
			Now:    s.Now,
		})
		s.log.Debug().Str("program", name).Int("exit", code).Msg("internal program finished")
		return
	}

	// "D:" switches drives.
	if len(name) == 2 && name[1] == ':' && args == "" {
		if err := s.FS.Chdrive(name); err != nil {
			fmt.Fprintln(s.Stdout, "Invalid drive specification")
		}
		return
	}

	path, err := s.resolve(name)
	if err != nil {
		s.log.Warn().Str("program", name).Err(err).Msg("could not find program")
		fmt.Fprintln(s.Stdout, "Bad command or file name")
		return
	}

	if dosfs.Ext(path) == ".BAT" {
		// Running a batch file without CALL replaces the current one, which
		// keeps its ECHO state.
		echo := s.Processor.Echo()
		if s.Processor.IsProcessingBatch() {
			s.Processor.ExitBatch()
		}
		if s.Processor.StartBatch(path, splitArgs(args)) {
			s.Processor.SetEcho(echo)
		}
		return
	}

	s.launch(ctx, path, args)
}

func (s *Shell) call(ctx context.Context, name, args string) {
	path, err := s.resolve(name)
	if err != nil {
		s.log.Warn().Str("program", name).Err(err).Msg("could not find program")
		fmt.Fprintln(s.Stdout, "Bad command or file name")
		return
	}

	if dosfs.Ext(path) == ".BAT" {
		s.Processor.StartBatch(path, splitArgs(args))
		return
	}

	s.launch(ctx, path, args)
}

func (s *Shell) launch(ctx context.Context, path, args string) {
	if s.StopAtProgram {
		s.log.Info().Str("program", path).Str("args", args).Msg("stopping at program")
		s.launched = &Program{Path: path, Args: args}
		return
	}

	if s.Launcher == nil {
		s.log.Warn().Str("program", path).Msg("no launcher configured")
		fmt.Fprintf(s.Stdout, "Cannot execute %s\n", path)
		return
	}

	s.log.Info().Str("program", path).Str("args", args).Msg("launching program")
	code, err := s.Launcher.Launch(ctx, path, args)
	if err != nil {
		s.log.Warn().Str("program", path).Err(err).Msg("launch failed")
		fmt.Fprintf(s.Stdout, "Cannot execute %s\n", path)
		return
	}
	s.ErrorLevel = code
}

// resolve finds an executable file by name. Names with a drive or directory
// are only looked up there; bare names are searched for in the current
// directory, the running batch file's directory and PATH.
func (s *Shell) resolve(name string) (string, error) {
	candidates := []string{name}
	if ext := dosfs.Ext(name); ext == "" {
		candidates = nil
		for _, ext := range s.Extensions {
			candidates = append(candidates, name+ext)
		}
	} else if !s.isExecutable(ext) {
		return "", fmt.Errorf("%s: %w", name, ErrBadCommand)
	}

	var dirs []string
	if strings.ContainsAny(name, `\/:`) {
		dirs = []string{""}
	} else {
		dirs = append(dirs, s.FS.Getwd())
		if batchPath := s.Processor.CurrentBatchPath(); batchPath != "" {
			dir, _ := dosfs.Split(batchPath)
			dirs = append(dirs, dir)
		}
		for _, dir := range strings.Split(s.Env.Getenv(commands.EnvPath), ";") {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}

	for _, dir := range dirs {
		for _, candidate := range candidates {
			abs, err := s.FS.Abs(dosfs.Join(dir, candidate))
			if err != nil {
				continue
			}
			if info, err := s.FS.Stat(abs); err == nil && !info.IsDir() {
				return abs, nil
			}
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrBadCommand)
}

func (s *Shell) isExecutable(ext string) bool {
	for _, e := range s.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
