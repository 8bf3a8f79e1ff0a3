package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/dosbatch/core/ttylog"
)

var (
	runRecord       string
	runUntilProgram bool
)

// runCmd runs a batch file
var runCmd = &cobra.Command{
	Use:   "run BATCHFILE [ARGS...]",
	Short: "Run a batch file from the configured drives.",
	Long: `Runs a batch file to completion. External programs can't be executed,
with --until-program the run stops at the first one and prints it instead.
The process exits with the final ERRORLEVEL.`,
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
		sh.StopAtProgram = runUntilProgram

		if runRecord != "" {
			name := runRecord
			if !strings.Contains(name, ".") {
				name += "." + ttylog.AsciicastFileExt
			}

			fd, err := cfg.CreateRecording(name)
			if err != nil {
				return err
			}
			defer fd.Close()
			logger.Info().Str("path", fd.Name()).Msg("recording session")

			sink := ttylog.NewCRLFAdapter(ttylog.NewAsciicastLogSink(fd, ttylog.DefaultAsciicastHeader()))
			recorder := ttylog.NewRecorder(logger, sink)
			sh.Stdout = recorder.Writer(sh.Stdout)
			sh.Stdin = recorder.Reader(sh.Stdin)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		level, err := sh.RunBatch(ctx, args[0], args[1:])
		if err != nil {
			return err
		}

		if prog, ok := sh.LaunchedProgram(); ok {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(prog.Path+" "+prog.Args))
		}

		exitCode = level
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runRecord, "record", "", "record the session to the named asciicast file in the recordings directory")
	runCmd.Flags().BoolVar(&runUntilProgram, "until-program", false, "stop at the first external program and print it")
}
