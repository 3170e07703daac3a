package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sail/internal/domain"
)

func statusCmd(opts *rootOptions) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active network mode and identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := opts.wire.Network
			out := cmd.OutOrStdout()

			mode := mgr.CurrentMode()
			fmt.Fprintf(out, "Mode: %s\n", mode)
			switch id := mgr.CurrentIdentity().(type) {
			case nil:
				fmt.Fprintln(out, "Identity: (none)")
			case domain.StandardIdentity:
				fmt.Fprintf(out, "Identity: %s (%s)\n", id.Username, id.WalletAddress)
				if id.NetworkID != "" {
					fmt.Fprintf(out, "Network: %s\n", id.NetworkID)
				}
			case domain.TorIdentity:
				fmt.Fprintf(out, "Identity: %s (%s)\n", id.AnonymousID, id.OnionAddress)
				if id.RoutingID != "" {
					fmt.Fprintf(out, "Routing: %s\n", id.RoutingID)
				}
			}
			fmt.Fprintf(out, "Marketplace: %s\n", mgr.Features().Marketplace)
			if !verbose {
				return nil
			}

			s := mgr.Store()
			keys, err := s.Keys()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Namespace: %s\n", s.Dir())
			fmt.Fprintf(out, "Records: %s\n", strings.Join(keys, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also show the namespace directory and record keys")
	return cmd
}
