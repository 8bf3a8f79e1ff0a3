package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/dosbatch/commands"
	"github.com/josephlewis42/dosbatch/core/config"
)

// playgroundCmd runs an interactive prompt over a scratch configuration
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run an interactive COMMAND.COM prompt over a scratch C: drive.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		cfg, err := config.Initialize(dir, zerolog.Nop())
		if err != nil {
			return err
		}

		logger, appLog, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer appLog.Close()

		playgroundLogger.Printf("Drive C: is file://%s\n", filepath.Join(dir, cfg.Drives[0].Path))
		playgroundLogger.Printf("See logs with: tail -f %s\n", filepath.Join(dir, config.AppLogName))
		playgroundLogger.Println(strings.Repeat("=", 80))

		rl, err := readline.NewEx(&readline.Config{
			Stdin:  readline.NewCancelableStdin(cmd.InOrStdin()),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		sh, err := newShell(cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer sh.Close()
		sh.Stdout = rl

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(rl, "\n%s\n\n", commands.Version)
		if err := sh.Interactive(ctx, rl); err != nil {
			return err
		}

		exitCode = sh.ErrorLevel
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
