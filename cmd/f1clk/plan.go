package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/libhal-google/libhal-stm32f1/clock"
	hostlog "github.com/libhal-google/libhal-stm32f1/host/log"
	"github.com/libhal-google/libhal-stm32f1/host/plan"
	"github.com/libhal-google/libhal-stm32f1/profiles"
)

// ANSI colours for the plan report
const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorAmber = "\x1b[33m"
)

var (
	planOpts = struct {
		profile string
		file    string
		set     string
		json    bool
		yaml    bool
		ihex    string
		strict  bool
		noHSE   bool
		noLSE   bool
		noColor bool
	}{}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Dry-run a clock tree",
		Long: `Apply a clock tree to a simulated STM32F1 and print the derived rates,
the RCC and FLASH register image and any datasheet violations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := resolveTree(planOpts.profile, planOpts.file, planOpts.set)
			if err != nil {
				return err
			}

			logger := hostlog.For(hostlog.ComponentPlan)
			res := plan.Run(tree, plan.Options{
				Strict: planOpts.strict,
				NoHSE:  planOpts.noHSE,
				NoLSE:  planOpts.noLSE,
			})
			logger.Debug("configured", "stores", res.Stores, "error", res.Error)

			if planOpts.ihex != "" {
				if err := writeHexFile(planOpts.ihex, res); err != nil {
					return err
				}
				logger.Info("wrote register image", "file", planOpts.ihex)
			}

			switch {
			case planOpts.json:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				err = enc.Encode(res)
			case planOpts.yaml:
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				err = enc.Encode(res)
			default:
				out := cmd.OutOrStdout()
				if out == os.Stdout {
					out = stdout
				}
				writeReport(out, res, !planOpts.noColor)
			}
			if err != nil {
				return err
			}
			return res.Err()
		},
	}
)

func init() {
	f := planCmd.Flags()
	f.StringVarP(&planOpts.profile, "profile", "p", "", "built-in profile name (see f1clk profiles)")
	f.StringVarP(&planOpts.file, "file", "f", "", "YAML clock tree file")
	f.StringVar(&planOpts.set, "set", "", `overrides such as "hse=8MHz pll.mul=x9 apb1=div2"`)
	f.BoolVar(&planOpts.json, "json", false, "print the result as JSON")
	f.BoolVar(&planOpts.yaml, "yaml", false, "print the result as YAML")
	f.StringVar(&planOpts.ihex, "ihex", "", "write the register image to an Intel HEX file")
	f.BoolVar(&planOpts.strict, "strict", false, "refuse trees that fail validation")
	f.BoolVar(&planOpts.noHSE, "no-hse", false, "simulate a board without the HSE crystal")
	f.BoolVar(&planOpts.noLSE, "no-lse", false, "simulate a board without the LSE crystal")
	f.BoolVar(&planOpts.noColor, "no-color", false, "disable coloured output")
	planCmd.MarkFlagsMutuallyExclusive("profile", "file")
	planCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// resolveTree starts from a profile, a file or the reset tree and applies
// the overrides on top.
func resolveTree(profile, file, set string) (clock.Tree, error) {
	var tree clock.Tree
	switch {
	case profile != "" && file != "":
		return tree, errors.New("--profile and --file are exclusive")
	case profile != "":
		p, err := profiles.Load(profile)
		if err != nil {
			return tree, err
		}
		tree = p.Tree
	case file != "":
		t, err := profiles.LoadFile(file)
		if err != nil {
			return tree, err
		}
		tree = t
	}

	if set != "" {
		if err := plan.Override(&tree, set); err != nil {
			return tree, err
		}
	}
	return tree, nil
}

func writeHexFile(path string, res *plan.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := res.WriteHex(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func paint(color, text string, on bool) string {
	if !on {
		return text
	}
	return color + text + colorReset
}

// writeReport prints the human-readable plan.
func writeReport(w io.Writer, res *plan.Result, color bool) {
	r := res.Rates
	fmt.Fprintln(w, "Rates:")
	for _, row := range []struct {
		name string
		rate fmt.Stringer
	}{
		{"sysclk", r.System}, {"ahb", r.AHB}, {"apb1", r.APB1}, {"apb2", r.APB2},
		{"apb1 timers", r.APB1Timer}, {"apb2 timers", r.APB2Timer}, {"adc", r.ADC},
		{"pll", r.PLL}, {"usb", r.USB}, {"rtc", r.RTC},
	} {
		fmt.Fprintf(w, "  %-12s %s\n", row.name, row.rate)
	}

	fmt.Fprintln(w, "Registers:")
	for _, reg := range res.Registers {
		fmt.Fprintf(w, "  %-10s 0x%08X = 0x%08X\n", reg.Name, uint32(reg.Addr), reg.Value)
	}

	if res.USBCapable {
		fmt.Fprintln(w, paint(colorGreen, "USB: 48MHz available", color))
	} else {
		fmt.Fprintln(w, paint(colorAmber, "USB: not available", color))
	}
	for _, p := range res.Problems {
		fmt.Fprintln(w, paint(colorAmber, "warning: "+p, color))
	}
	if res.Error != "" {
		fmt.Fprintln(w, paint(colorRed, "error: "+res.Error, color))
	}
}
