// Command f1clk plans STM32F1 clock trees on the host and watches the clock
// reports a board sends over its console UART.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
