package commands

import (
	"fmt"
	"strings"
)

// Cd implements the COMMAND.COM CD and CHDIR commands.
func Cd(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "CD [drive:][path]",
		Short: "Displays the name of or changes the current directory.",
	}

	return cmd.Run(proc, func() int {
		args := cmd.Flags().Args()
		switch len(args) {
		case 0:
			fmt.Fprintln(proc.Stdout, proc.FS.Getwd())
			return 0
		case 1:
		default:
			fmt.Fprintln(proc.Stderr, "Too many parameters")
			return 1
		}

		target := args[0]

		// "CD D:" shows the directory of another drive.
		if len(target) == 2 && strings.HasSuffix(target, ":") {
			wd, err := proc.FS.Abs(target)
			if err != nil {
				fmt.Fprintln(proc.Stderr, "Invalid drive specification")
				return 1
			}
			fmt.Fprintln(proc.Stdout, wd)
			return 0
		}

		if err := proc.FS.Chdir(target); err != nil {
			proc.Log.Debug().Str("path", target).Err(err).Msg("CD failed")
			fmt.Fprintln(proc.Stderr, "Invalid directory")
			return 1
		}
		return 0
	})
}

var _ ProgramFunc = Cd

func init() {
	addCmd(Cd, "CD", "CHDIR")
}
