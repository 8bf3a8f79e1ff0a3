package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/dosbatch/core/ttylog"
)

var playMaxPause time.Duration

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play RECORDING.cast",
	Short: "Play a recorded session.",
	Long:  `Plays a session recorded with run --record back to the current terminal.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fd, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		sink := ttylog.NewRealTimePlayback(playMaxPause, ttylog.NewClientOutput(cmd.OutOrStdout()))
		return ttylog.Replay(ttylog.NewAsciicastLogSource(fd), sink)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVar(&playMaxPause, "max-pause", 2*time.Second, "longest pause between events, 0 plays without pausing")
}
