package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func featuresCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List features enabled by the active mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := opts.wire.Network
			f := mgr.Features()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode: %s\n", mgr.CurrentMode())
			fmt.Fprintf(out, "Marketplace: %s\n", f.Marketplace)
			fmt.Fprintf(out, "Agents: %s\n", strings.Join(f.Agents, ", "))
			fmt.Fprintf(out, "Currencies: %s\n", strings.Join(f.Currencies, ", "))
			fmt.Fprintf(out, "Services: %s\n", strings.Join(f.Services, ", "))
			return nil
		},
	}
}
