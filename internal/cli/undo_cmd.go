package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last bulk action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Tracker.Store().CanUndo() {
				fmt.Fprintln(app.out(), "Nothing to undo.")
				return nil
			}
			if _, err := app.Tracker.Undo(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out(), "Reverted the last bulk action.")
			return nil
		},
	}
}
