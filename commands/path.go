package commands

import (
	"fmt"
	"strings"
)

const (
	// EnvPath holds the program search path.
	EnvPath = "PATH"
	// EnvPrompt holds the prompt template.
	EnvPrompt = "PROMPT"
	// DefaultPrompt is used when PROMPT is unset.
	DefaultPrompt = "$P$G"
)

// Path implements the COMMAND.COM PATH command.
func Path(proc *Process) int {
	// Search paths contain semicolons and backslashes that shouldn't be
	// treated as switches.
	args := strings.TrimSpace(strings.Join(proc.Args[1:], " "))

	switch {
	case args == "":
		if p := proc.Env.Getenv(EnvPath); p != "" {
			fmt.Fprintf(proc.Stdout, "%s=%s\n", EnvPath, p)
		} else {
			fmt.Fprintln(proc.Stdout, "No Path")
		}
	case args == ";":
		proc.Env.Unsetenv(EnvPath)
	default:
		proc.Env.Setenv(EnvPath, strings.ToUpper(strings.TrimPrefix(args, "=")))
	}
	return 0
}

// Prompt implements the COMMAND.COM PROMPT command.
func Prompt(proc *Process) int {
	args := strings.TrimSpace(strings.Join(proc.Args[1:], " "))
	if args == "" {
		args = DefaultPrompt
	}

	proc.Env.Setenv(EnvPrompt, strings.TrimPrefix(args, "="))
	return 0
}

var _ ProgramFunc = Path
var _ ProgramFunc = Prompt

func init() {
	addCmd(Path, "PATH")
	addCmd(Prompt, "PROMPT")
}
