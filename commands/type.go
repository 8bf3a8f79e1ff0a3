package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Type implements the COMMAND.COM TYPE command.
func Type(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "TYPE [drive:][path]filename",
		Short: "Displays the contents of a text file.",
	}

	return cmd.Run(proc, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintln(proc.Stderr, "Required parameter missing")
			return 1
		}

		for _, arg := range args {
			fd, err := proc.FS.Open(arg)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				fmt.Fprintf(proc.Stderr, "File not found - %s\n", arg)
				return 1
			case err != nil:
				fmt.Fprintf(proc.Stderr, "Access denied - %s\n", arg)
				return 1
			}

			_, err = io.Copy(proc.Stdout, fd)
			fd.Close()
			if err != nil {
				// Directories open fine but can't be read.
				fmt.Fprintf(proc.Stderr, "Access denied - %s\n", arg)
				return 1
			}
		}

		return 0
	})
}

var _ ProgramFunc = Type

func init() {
	addCmd(Type, "TYPE")
}
