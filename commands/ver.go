package commands

import "fmt"

// Version is reported by VER.
const Version = "MS-DOS Version 6.22"

// Ver implements the COMMAND.COM VER command.
func Ver(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "VER",
		Short: "Displays the MS-DOS version.",
	}

	return cmd.Run(proc, func() int {
		fmt.Fprintln(proc.Stdout)
		fmt.Fprintln(proc.Stdout, Version)
		fmt.Fprintln(proc.Stdout)
		return 0
	})
}

var _ ProgramFunc = Ver

func init() {
	addCmd(Ver, "VER")
}
