package commands

import "fmt"

const (
	// DateFormat is the time layout DATE prints.
	DateFormat = "Mon 01-02-2006"
	// TimeFormat is the time layout TIME prints.
	TimeFormat = "15:04:05.00"
)

// Date prints the current date. Setting the date isn't supported.
func Date(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "DATE",
		Short: "Displays the date.",
	}

	return cmd.Run(proc, func() int {
		fmt.Fprintf(proc.Stdout, "Current date is %s\n", proc.now().Format(DateFormat))
		return 0
	})
}

// Time prints the current time. Setting the time isn't supported.
func Time(proc *Process) int {
	cmd := &SimpleCommand{
		Use:   "TIME",
		Short: "Displays the system time.",
	}

	return cmd.Run(proc, func() int {
		fmt.Fprintf(proc.Stdout, "Current time is %s\n", proc.now().Format(TimeFormat))
		return 0
	})
}

var _ ProgramFunc = Date
var _ ProgramFunc = Time

func init() {
	addCmd(Date, "DATE")
	addCmd(Time, "TIME")
}
