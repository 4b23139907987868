package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarchlab/topdown/config"
)

// newRootCmd builds the topdown command. All settings come from the
// environment; the command takes no flags or arguments.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "topdown",
		Short:         "Compute Top-Down ratios from $NPC_HOME/build/stderr.log",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(stderr)

			cfg, err := config.Load(viper.New())
			if err != nil {
				logger.WithError(err).Error("invalid configuration")
				return err
			}
			if cfg.Debug {
				logger.SetLevel(logrus.DebugLevel)
			}

			path, err := run(cfg, logger)
			if err != nil {
				logger.WithError(err).Error("topdown analysis failed")
				return err
			}

			_, err = color.New(color.FgGreen).Fprintf(stdout, "Writing topdown result to %s\n", path)
			return err
		},
	}
}

func newLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}
