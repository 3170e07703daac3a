package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sail/internal/store"
)

func wipeCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Securely wipe all records in the active namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := opts.wire.Network
			if !yes {
				return fmt.Errorf("refusing to wipe the %s namespace without --yes", mgr.CurrentMode())
			}
			if err := mgr.ClearAll(); err != nil {
				var werr *store.WipeError
				if errors.As(err, &werr) {
					for _, p := range werr.Paths() {
						fmt.Fprintf(cmd.ErrOrStderr(), "not wiped: %s\n", p)
					}
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wiped %s namespace.\n", mgr.CurrentMode())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the wipe")
	return cmd
}
