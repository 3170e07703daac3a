package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sail/internal/crypto"
	"sail/internal/domain"
	"sail/internal/onion"
)

func identityCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Set the identity for the active mode",
	}
	cmd.AddCommand(identityStandardCmd(opts), identityTorCmd(opts))
	return cmd
}

func identityStandardCmd(opts *rootOptions) *cobra.Command {
	var id domain.StandardIdentity
	cmd := &cobra.Command{
		Use:   "standard",
		Short: "Bind a wallet identity (standard mode only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.wire.Network.SetIdentity(id); err != nil {
				return err
			}
			set := opts.wire.Network.CurrentIdentity()
			fmt.Fprintf(cmd.OutOrStdout(), "Identity set: %s (%s)\n", set.DisplayName(), set.ID())
			return nil
		},
	}
	cmd.Flags().StringVar(&id.WalletAddress, "wallet", "", "base58 wallet address")
	cmd.Flags().StringVar(&id.Username, "username", "", "display name")
	cmd.Flags().StringVar(&id.NetworkID, "network-id", "", "optional network identifier")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func identityTorCmd(opts *rootOptions) *cobra.Command {
	var (
		id              domain.TorIdentity
		allowUnverified bool
	)
	cmd := &cobra.Command{
		Use:   "tor",
		Short: "Bind an onion identity (tor mode only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !allowUnverified {
				addr, err := onion.VerifyV3(id.OnionAddress)
				if err != nil {
					return fmt.Errorf("%w (pass --allow-unverified to skip the v3 check)", err)
				}
				id.OnionAddress = addr
			}
			if id.AnonymousID == "" {
				anon, err := crypto.NewAnonymousID()
				if err != nil {
					return err
				}
				id.AnonymousID = anon
			}
			if err := opts.wire.Network.SetIdentity(id); err != nil {
				return err
			}
			set := opts.wire.Network.CurrentIdentity()
			fmt.Fprintf(cmd.OutOrStdout(), "Identity set: %s (%s)\n", set.DisplayName(), set.ID())
			return nil
		},
	}
	cmd.Flags().StringVar(&id.OnionAddress, "onion", "", "onion service address")
	cmd.Flags().StringVar(&id.AnonymousID, "anon-id", "", "anonymous id (default: generated)")
	cmd.Flags().StringVar(&id.RoutingID, "routing-id", "", "optional routing identifier")
	cmd.Flags().BoolVar(&allowUnverified, "allow-unverified", false, "accept onion addresses that are not valid v3 service IDs")
	_ = cmd.MarkFlagRequired("onion")
	return cmd
}
