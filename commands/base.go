package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	getopt "github.com/pborman/getopt/v2"
	"github.com/rs/zerolog"

	"github.com/josephlewis42/dosbatch/core/dosenv"
	"github.com/josephlewis42/dosbatch/core/dosfs"
)

// Process holds the state an internal program runs with.
type Process struct {
	// Args holds the program name followed by its arguments.
	Args []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Env dosenv.VEnv
	FS  *dosfs.FS
	Log zerolog.Logger

	// Now returns the current time, nil uses time.Now.
	Now func() time.Time
}

func (p *Process) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// LogInvalidInvocation records a program called with bad arguments.
func (p *Process) LogInvalidInvocation(err error) {
	p.Log.Warn().Strs("args", p.Args).Err(err).Msg("invalid invocation")
}

// ProgramFunc is an internal program, it returns the exit code.
type ProgramFunc func(proc *Process) int

// AllCommands holds all registered programs keyed by upper-case name.
var AllCommands = make(map[string]ProgramFunc)

// CommandEntry is a registered program and all of its names.
type CommandEntry struct {
	Names []string
	Proc  ProgramFunc
}

var registered []CommandEntry

// addCmd registers a program under one or more names.
func addCmd(proc ProgramFunc, names ...string) {
	entry := CommandEntry{Proc: proc}
	for _, name := range names {
		name = strings.ToUpper(name)
		AllCommands[name] = proc
		entry.Names = append(entry.Names, name)
	}
	registered = append(registered, entry)
}

// Lookup finds an internal program by name, ignoring case.
func Lookup(name string) (ProgramFunc, bool) {
	proc, ok := AllCommands[strings.ToUpper(name)]
	return proc, ok
}

// ListBuiltinCommands returns the registered programs sorted by name.
func ListBuiltinCommands() []CommandEntry {
	out := append([]CommandEntry(nil), registered...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Names[0] < out[j].Names[0]
	})
	return out
}

// FormatBytes formats a byte count with thousands separators the way DIR does.
func FormatBytes(bytes int64) string {
	digits := fmt.Sprintf("%d", bytes)
	if bytes < 0 {
		return digits
	}

	var sb strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// dosArgs rewrites DOS switches into getopt flags: "/W" becomes "-W", "/w/b"
// becomes "-W" "-B" and "/?" becomes "--help". Switches may appear anywhere
// on a DOS command line so they are moved ahead of the operands.
func dosArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}

	var switches, operands []string
	for _, arg := range args[1:] {
		if !strings.HasPrefix(arg, "/") || len(arg) < 2 {
			operands = append(operands, arg)
			continue
		}

		for _, sw := range strings.Split(arg[1:], "/") {
			switch {
			case sw == "":
			case sw == "?":
				switches = append(switches, "--help")
			default:
				switches = append(switches, "-"+strings.ToUpper(sw))
			}
		}
	}

	out := append([]string{args[0]}, switches...)
	return append(out, operands...)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w)
	s.Flags().PrintOptions(w)
}

// Run the command, if switch parsing was successful call the callback.
func (s *SimpleCommand) Run(proc *Process, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 0, "show this help and exit")
	}

	err := opts.Getopt(dosArgs(proc.Args), nil)
	if err != nil {
		proc.LogInvalidInvocation(err)
	}

	if err != nil && !s.NeverBail {
		fmt.Fprintf(proc.Stderr, "Invalid switch - %s\n\n", err)

		s.PrintHelp(proc.Stdout)
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(proc.Stdout)
		return 0
	}

	return callback()
}
