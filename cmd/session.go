package cmd

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/dosbatch/core/config"
	"github.com/josephlewis42/dosbatch/core/dosfs"
	"github.com/josephlewis42/dosbatch/core/shell"
)

// newShell creates a shell over the configured drives and environment
// attached to the command's stdio.
func newShell(cmd *cobra.Command, cfg *config.Configuration, logger zerolog.Logger) (*shell.Shell, error) {
	fsys := dosfs.New()
	if err := cfg.MountDrives(fsys); err != nil {
		return nil, err
	}

	sh := shell.New(logger, cfg.Env(), fsys, cfg.BatchEncoding())
	sh.Processor.SetEcho(cfg.Echo)
	sh.Extensions = cfg.ProgramExtensions
	sh.Stdin = cmd.InOrStdin()
	sh.Stdout = cmd.OutOrStdout()
	sh.Highlight = color.New(color.FgHiBlack)

	return sh, nil
}
