package commands

import "fmt"

// Cls clears the screen with ANSI escape codes.
func Cls(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "CLS",
		Short: "Clears the screen.",
	}

	return cmd.Run(proc, func() int {
		fmt.Fprint(proc.Stdout, "\033[2J\033[H")
		return 0
	})
}

var _ ProgramFunc = Cls

func init() {
	addCmd(Cls, "CLS")
}
