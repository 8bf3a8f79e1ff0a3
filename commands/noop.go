package commands

import (
	"fmt"
)

// NoOpCommand describes an internal command that only prints a fixed
// message. They cover settings that have no meaning in an emulated DOS.
type NoOpCommand struct {
	Names    []string
	Use      string
	Short    string
	Stdout   string
	ExitCode int
}

// ToCommand converts the description to a functioning command.
func (c *NoOpCommand) ToCommand() ProgramFunc {
	return func(proc *Process) int {
		cmd := &SimpleCommand{
			Use:   c.Use,
			Short: c.Short,
			// Never bail, even if args are bad.
			NeverBail: true,
		}

		return cmd.Run(proc, func() int {
			if c.Stdout != "" {
				fmt.Fprintln(proc.Stdout, c.Stdout)
			}

			return c.ExitCode
		})
	}
}

var noOpCommands = []NoOpCommand{
	{
		Names:  []string{"BREAK"},
		Use:    "BREAK [ON | OFF]",
		Short:  "Sets or clears extended CTRL+C checking.",
		Stdout: "BREAK is off",
	},
	{
		Names:  []string{"VERIFY"},
		Use:    "VERIFY [ON | OFF]",
		Short:  "Directs MS-DOS to verify that your files are written correctly to a disk.",
		Stdout: "VERIFY is off",
	},
	{
		Names:  []string{"CHCP"},
		Use:    "CHCP [nnn]",
		Short:  "Displays or sets the active code page number.",
		Stdout: "Active code page: 437",
	},
	{
		Names:    []string{"CTTY"},
		Use:      "CTTY device",
		Short:    "Changes the terminal device used to control your system.",
		Stdout:   "Invalid device",
		ExitCode: 1,
	},
}

func init() {
	for i := range noOpCommands {
		cmd := noOpCommands[i]
		addCmd(cmd.ToCommand(), cmd.Names...)
	}
}
