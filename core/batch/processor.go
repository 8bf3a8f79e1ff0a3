package batch

import (
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Processor reads and decodes DOS batch files the way COMMAND.COM does.
//
// A Processor is not safe for concurrent use. It holds the global ECHO flag
// and a stack of batch contexts; CALL pushes a context, EXIT or end of file
// pops it.
type Processor struct {
	log     zerolog.Logger
	env     Environment
	open    Opener
	echo    bool
	current *batchContext
}

// NewProcessor creates a Processor with ECHO on and no batch running. A nil
// env behaves as an empty environment and a nil open reads host files.
func NewProcessor(logger zerolog.Logger, env Environment, open Opener) *Processor {
	if env == nil {
		env = EmptyEnvironment{}
	}
	if open == nil {
		open = HostOpener()
	}

	return &Processor{
		log:  logger,
		env:  env,
		open: open,
		echo: true,
	}
}

// Echo reports whether commands are echoed before they run.
func (p *Processor) Echo() bool {
	return p.echo
}

// SetEcho changes the ECHO flag.
func (p *Processor) SetEcho(on bool) {
	p.echo = on
}

// IsProcessingBatch reports whether a batch file is active.
func (p *Processor) IsProcessingBatch() bool {
	return p.current != nil
}

// CurrentBatchPath returns the path of the active batch file or "" if none.
func (p *Processor) CurrentBatchPath() string {
	if p.current == nil {
		return ""
	}
	return p.current.path
}

// Depth returns the number of active batch contexts.
func (p *Processor) Depth() int {
	depth := 0
	for bc := p.current; bc != nil; bc = bc.parent {
		depth++
	}
	return depth
}

// Parameter returns the positional parameter %index of the active batch file.
func (p *Processor) Parameter(index int) string {
	if p.current == nil {
		return ""
	}
	return p.current.parameter(index)
}

// StartBatch opens the batch file at path and makes it the active context.
// It returns false if the file can't be opened.
func (p *Processor) StartBatch(path string, args []string) bool {
	if strings.TrimSpace(path) == "" {
		p.log.Warn().Msg("cannot start batch with empty path")
		return false
	}

	source, err := p.open(path)
	if err != nil {
		p.log.Warn().Str("path", path).Err(err).Msg("batch file not found")
		return false
	}

	return p.StartBatchWithReader(path, args, source)
}

// StartBatchWithReader starts a batch file whose lines come from source. The
// processor takes ownership of source and closes it when the batch exits.
func (p *Processor) StartBatchWithReader(path string, args []string, source LineSource) bool {
	if source == nil {
		p.log.Warn().Str("path", path).Msg("cannot start batch without a line source")
		return false
	}

	p.log.Info().Str("path", path).Int("args", len(args)).Msg("starting batch file")

	bc := newBatchContext(path, args, p.echo, source)
	bc.parent = p.current
	p.current = bc
	return true
}

// ExitBatch leaves the active batch file, restoring the ECHO state it started
// with and returning to the batch file that called it, if any.
func (p *Processor) ExitBatch() {
	bc := p.current
	if bc == nil {
		return
	}

	p.log.Info().Str("path", bc.path).Msg("exiting batch file")

	p.echo = bc.savedEcho
	p.current = bc.parent
	bc.parent = nil
	if err := bc.close(); err != nil {
		p.log.Debug().Str("path", bc.path).Err(err).Msg("closing batch file")
	}
}

// Close exits every active batch context.
func (p *Processor) Close() error {
	for p.current != nil {
		p.ExitBatch()
	}
	return nil
}

// ReadNextLine returns the next executable line of the active batch file with
// parameters and variables substituted. Blank lines, labels and REM comments
// are skipped. shouldEcho is true if the line should be shown before it runs.
// ok is false at the end of the batch file, which also exits its context.
func (p *Processor) ReadNextLine() (line string, shouldEcho bool, ok bool) {
	for p.current != nil {
		raw, more := p.current.readLine()
		if !more {
			p.ExitBatch()
			return "", false, false
		}

		line = strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		suppress := false
		if line[0] == '@' {
			suppress = true
			line = strings.TrimLeftFunc(line[1:], unicode.IsSpace)
		}

		if strings.HasPrefix(line, ":") || isRem(line) {
			continue
		}

		shouldEcho = p.echo && !suppress
		line = p.Expand(line)

		p.log.Trace().Str("line", line).Bool("echo", shouldEcho).Msg("read line")
		return line, shouldEcho, true
	}

	return "", false, false
}

// GotoLabel moves the active batch file to the line after :label. It returns
// false, leaving the file at its end, if the label doesn't exist.
func (p *Processor) GotoLabel(label string) bool {
	if p.current == nil || strings.TrimSpace(label) == "" {
		return false
	}

	p.log.Debug().Str("label", label).Msg("GOTO searching for label")

	source := p.current.source
	if source == nil || !source.Reset() {
		return false
	}

	for {
		raw, ok := source.ReadLine()
		if !ok {
			return false
		}

		if lineLabel, isLabel := labelOf(raw); isLabel && strings.EqualFold(lineLabel, label) {
			return true
		}
	}
}

// labelOf extracts the label name from a ":label" line.
func labelOf(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	if !strings.HasPrefix(line, ":") {
		return "", false
	}

	name := strings.TrimSpace(line[1:])
	if idx := strings.IndexFunc(name, unicode.IsSpace); idx >= 0 {
		name = name[:idx]
	}
	return name, true
}

func isRem(line string) bool {
	if len(line) < 3 || !strings.EqualFold(line[:3], "REM") {
		return false
	}
	return len(line) == 3 || unicode.IsSpace(rune(line[3]))
}

// Expand substitutes %0-%9, %% and %NAME% in a single pass. Substituted text
// is never expanded again.
func (p *Processor) Expand(line string) string {
	var out strings.Builder
	out.Grow(len(line))

	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '%' || i+1 >= len(line) {
			out.WriteByte(c)
			continue
		}

		next := line[i+1]
		switch {
		case next >= '0' && next <= '9':
			if p.current == nil {
				// Parameters are left alone outside of batch files.
				out.WriteByte(c)
				continue
			}
			out.WriteString(p.Parameter(int(next - '0')))
			i++
		case next == '%':
			out.WriteByte('%')
			i++
		default:
			end := strings.IndexByte(line[i+1:], '%')
			if end < 0 {
				// Unmatched, keep the literal percent.
				out.WriteByte(c)
				continue
			}
			name := line[i+1 : i+1+end]
			if val, ok := p.env.Lookup(name); ok {
				out.WriteString(val)
			}
			i += end + 1
		}
	}

	return out.String()
}
