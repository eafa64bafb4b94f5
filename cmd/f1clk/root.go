package main

import (
	"io"
	"log/slog"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	hostlog "github.com/libhal-google/libhal-stm32f1/host/log"
)

var (
	rootOpts = struct {
		verbose   bool
		logFormat string
	}{}

	// stdout handles ANSI sequences on Windows consoles too
	stdout io.Writer = colorable.NewColorableStdout()

	rootCmd = &cobra.Command{
		Use:           "f1clk",
		Short:         "STM32F1 clock tree planner",
		Long:          "Plan STM32F1 clock trees against a simulated register file and monitor the clock reports sent by a board.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := hostlog.ParseFormat(rootOpts.logFormat)
			if err != nil {
				return err
			}
			hostlog.Setup(colorable.NewColorableStderr(), format)
			if rootOpts.verbose {
				hostlog.SetLevel(slog.LevelDebug)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&rootOpts.logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(planCmd, profilesCmd, portsCmd, monitorCmd)
}
