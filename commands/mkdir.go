package commands

import (
	"fmt"
)

// Mkdir implements the COMMAND.COM MD and MKDIR commands.
func Mkdir(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "MD [drive:]path",
		Short: "Creates a directory.",
	}

	return cmd.Run(proc, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(proc.Stderr, "Required parameter missing")
			return 1
		}

		anyFailed := false
		for _, dir := range directories {
			if proc.FS.Exists(dir) {
				fmt.Fprintln(proc.Stderr, "Unable to create directory")
				anyFailed = true
				continue
			}

			if err := proc.FS.Mkdir(dir); err != nil {
				proc.Log.Debug().Str("path", dir).Err(err).Msg("MD failed")
				fmt.Fprintln(proc.Stderr, "Unable to create directory")
				anyFailed = true
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

var _ ProgramFunc = Mkdir

func init() {
	addCmd(Mkdir, "MD", "MKDIR")
}
