package cmd

import (
	"github.com/spf13/cobra"
)

// traceCmd shows how a batch file is decoded
var traceCmd = &cobra.Command{
	Use:   "trace BATCHFILE [ARGS...]",
	Short: "Show the commands a batch file decodes to without running it.",
	Long: `Reads a batch file line by line and prints each executable line with the
command it decodes to. Lines marked with + would be echoed. Only ECHO ON/OFF
and SHIFT take effect, jumps and calls are shown but not followed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, appLog, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer appLog.Close()

		sh, err := newShell(cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Trace(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
}
