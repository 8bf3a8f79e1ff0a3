package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/josephlewis42/dosbatch/core/config"
)

var (
	cfgPath  string
	logLevel string

	// exitCode is the process exit status, set from ERRORLEVEL by run.
	exitCode int
)

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.New(cmd.ErrOrStderr(), "", 0).Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// newLogger logs to stderr and the configuration's app log. The --log-level
// flag overrides the configured level.
func newLogger(cmd *cobra.Command, cfg *config.Configuration) (zerolog.Logger, io.Closer, error) {
	level := cfg.Level()
	if logLevel != "" {
		parsed, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		level = parsed
	}

	appLog, err := cfg.OpenAppLog()
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	console := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}
	logger := zerolog.New(zerolog.MultiLevelWriter(console, appLog)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, appLog, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dosbatch",
	Short: "DOS batch file interpreter",
	Long:  `Runs MS-DOS .BAT files against host directories mounted as DOS drives.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config (trace, debug, info, warn, error)")
}
