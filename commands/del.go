package commands

import (
	"fmt"
)

// Del implements the COMMAND.COM DEL and ERASE commands. Wildcards delete
// every matching file, directories are never deleted.
func Del(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "DEL [drive:][path]filename",
		Short: "Deletes one or more files.",
	}

	return cmd.Run(proc, func() int {
		patterns := cmd.Flags().Args()
		if len(patterns) == 0 {
			fmt.Fprintln(proc.Stderr, "Required parameter missing")
			return 1
		}

		anyFailed := false
		for _, pattern := range patterns {
			matches, err := proc.FS.Glob(pattern)
			if err != nil {
				fmt.Fprintln(proc.Stderr, "Invalid drive specification")
				anyFailed = true
				continue
			}
			if len(matches) == 0 {
				fmt.Fprintln(proc.Stderr, "File not found")
				anyFailed = true
				continue
			}

			for _, file := range matches {
				if err := proc.FS.Remove(file); err != nil {
					proc.Log.Debug().Str("path", file).Err(err).Msg("DEL failed")
					fmt.Fprintf(proc.Stderr, "Access denied - %s\n", file)
					anyFailed = true
				}
			}
		}

		if anyFailed {
			return 1
		}
		return 0
	})
}

var _ ProgramFunc = Del

func init() {
	addCmd(Del, "DEL", "ERASE")
}
