package commands

import (
	"fmt"
)

// Rmdir implements the COMMAND.COM RD and RMDIR commands.
func Rmdir(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "RD [drive:]path",
		Short: "Removes (deletes) a directory.",
	}

	return cmd.Run(proc, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(proc.Stderr, "Required parameter missing")
			return 1
		}

		for _, dir := range directories {
			abs, err := proc.FS.Abs(dir)
			if err != nil {
				fmt.Fprintln(proc.Stderr, "Invalid drive specification")
				return 1
			}

			contents, err := proc.FS.ReadDir(abs)
			switch {
			case err != nil:
				proc.Log.Debug().Str("path", abs).Err(err).Msg("RD failed")
				fmt.Fprintln(proc.Stderr, "Invalid path, not directory,")
				fmt.Fprintln(proc.Stderr, "or directory not empty")
				return 1

			case len(contents) > 0, abs == proc.FS.Getwd():
				fmt.Fprintln(proc.Stderr, "Invalid path, not directory,")
				fmt.Fprintln(proc.Stderr, "or directory not empty")
				return 1
			}

			if err := proc.FS.Remove(abs); err != nil {
				proc.Log.Debug().Str("path", abs).Err(err).Msg("RD failed")
				fmt.Fprintln(proc.Stderr, "Access denied")
				return 1
			}
		}

		return 0
	})
}

var _ ProgramFunc = Rmdir

func init() {
	addCmd(Rmdir, "RD", "RMDIR")
}
