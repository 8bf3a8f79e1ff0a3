package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/dosbatch/commands"
)

var batchKeywords = []string{"CALL", "ECHO", "EXIT", "FOR", "GOTO", "IF", "LH", "LOADHIGH", "PAUSE", "REM", "SET", "SHIFT"}

// builtinsCmd lists the commands the interpreter handles itself
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the built-in commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var builtins []string

		for _, cmd := range commands.ListBuiltinCommands() {
			builtins = append(builtins, strings.Join(cmd.Names, ", "))
		}

		for _, keyword := range batchKeywords {
			builtins = append(builtins, "batch:"+keyword)
		}

		sort.Strings(builtins)

		for _, v := range builtins {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
