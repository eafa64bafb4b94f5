package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/libhal-google/libhal-stm32f1/clock"
	hostlog "github.com/libhal-google/libhal-stm32f1/host/log"
	"github.com/libhal-google/libhal-stm32f1/host/monitor"
	"github.com/libhal-google/libhal-stm32f1/host/serial"
	"github.com/libhal-google/libhal-stm32f1/protocol"
)

var (
	monitorOpts = struct {
		device string
		baud   int
		expect string
		file   string
		set    string
	}{}

	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Print the clock reports sent by a board",
		Long: `Read the framed reports a board sends on its console UART. With --expect,
--file or --set the reported rates are checked against that clock tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := hostlog.For(hostlog.ComponentMonitor)

			device := monitorOpts.device
			if device == "" {
				ports, err := serial.Ports()
				if err != nil {
					return err
				}
				if len(ports) == 0 || !ports[0].USB {
					return errors.New("no USB serial port found, use --device")
				}
				device = ports[0].Name
				logger.Info("using port", "device", device)
			}

			cfg := serial.DefaultConfig(device)
			cfg.Baud = monitorOpts.baud
			// Idle timeouts read as end of stream
			cfg.ReadTimeout = 0
			port, err := serial.Open(cfg)
			if err != nil {
				return err
			}
			defer port.Close()
			port.Flush()

			m := monitor.New(logger)
			if monitorOpts.expect != "" || monitorOpts.file != "" || monitorOpts.set != "" {
				tree, err := resolveTree(monitorOpts.expect, monitorOpts.file, monitorOpts.set)
				if err != nil {
					return err
				}
				want := clock.Derive(tree)
				m.Expect = &want
			}

			out := cmd.OutOrStdout()
			m.OnClock = func(r protocol.ClockReport) {
				fmt.Fprintln(out, r.Rates)
			}
			m.OnRegister = func(r protocol.RegisterReport) {
				fmt.Fprintf(out, "  0x%08X = 0x%08X\n", r.Addr, r.Value)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = m.Run(ctx, port)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
)

func init() {
	f := monitorCmd.Flags()
	f.StringVarP(&monitorOpts.device, "device", "d", "", "serial device, default the first USB port")
	f.IntVarP(&monitorOpts.baud, "baud", "b", serial.DefaultBaud, "baud rate")
	f.StringVar(&monitorOpts.expect, "expect", "", "profile the board should be running")
	f.StringVar(&monitorOpts.file, "file", "", "YAML clock tree the board should be running")
	f.StringVar(&monitorOpts.set, "set", "", "overrides applied to the expected tree")
}
