package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libhal-google/libhal-stm32f1/clock"
	"github.com/libhal-google/libhal-stm32f1/profiles"
)

var (
	profilesOpts = struct {
		show string
	}{}

	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in clock profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if profilesOpts.show != "" {
				p, err := profiles.Load(profilesOpts.show)
				if err != nil {
					return err
				}
				return profiles.EncodeTree(out, p.Tree)
			}

			for _, p := range profiles.All() {
				fmt.Fprintf(out, "%-20s %-8s %s\n", p.Name, clock.Derive(p.Tree).System, p.Description)
			}
			return nil
		},
	}
)

func init() {
	profilesCmd.Flags().StringVar(&profilesOpts.show, "show", "", "print the tree of one profile as YAML")
}
