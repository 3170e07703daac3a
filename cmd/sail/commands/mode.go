package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sail/internal/domain"
)

func modeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "mode <standard|tor>",
		Short:     "Switch network mode; the current namespace is wiped first",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.ModeStandard), string(domain.ModeTor)},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseMode(args[0])
			if err != nil {
				return err
			}
			mgr := opts.wire.Network
			from := mgr.CurrentMode()
			if err := mgr.SwitchMode(target); err != nil {
				return err
			}
			if from == target {
				fmt.Fprintf(cmd.OutOrStdout(), "Already in %s mode.\n", target)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched %s -> %s. Set an identity with `sail identity %s`.\n", from, target, target)
			return nil
		},
	}
}
