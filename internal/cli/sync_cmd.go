package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push or pull the whole state against the remote endpoint",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the local state to the remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sync.Push(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out(), "Pushed.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Replace the local state with the remote copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sync.Pull(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out(), "Pulled.")
			return nil
		},
	})

	return cmd
}
