package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libhal-google/libhal-stm32f1/host/serial"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.Ports()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ports) == 0 {
			fmt.Fprintln(out, "no serial ports found")
			return nil
		}
		for _, p := range ports {
			if !p.USB {
				fmt.Fprintln(out, p.Name)
				continue
			}
			line := fmt.Sprintf("%s  %s:%s", p.Name, p.VID, p.PID)
			if b := p.Bridge(); b != "" {
				line += "  " + b
			}
			if p.Serial != "" {
				line += "  serial " + p.Serial
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
