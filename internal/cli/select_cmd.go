package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
)

func newSelectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Manage the bulk-action selection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add NOTE...",
		Short: "Add notes to the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				noteID, err := resolveNoteID(app, arg)
				if err != nil {
					return err
				}
				ids = append(ids, noteID)
			}
			if err := app.Tracker.SelectNotes(cmd.Context(), ids...); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "%d selected\n", len(app.Tracker.Store().SelectedIDs()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NOTE...",
		Short: "Remove notes from the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				noteID, err := resolveNoteID(app, arg)
				if err != nil {
					return err
				}
				ids = append(ids, noteID)
			}
			if err := app.Tracker.DeselectNotes(cmd.Context(), ids...); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "%d selected\n", len(app.Tracker.Store().SelectedIDs()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tracker.ClearSelection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out(), "Selection cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List the selected notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, idx := dataIndex(app)
			ids := app.Tracker.Store().SelectedIDs()
			if len(ids) == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("Nothing selected."))
				return nil
			}
			for _, id := range ids {
				if n, ok := idx.NotesByID[id]; ok {
					fmt.Fprintf(app.out(), "%s  %s\n", formatter.Dim(formatter.TruncID(id)), formatter.NoteSummary(n, idx))
				} else {
					fmt.Fprintln(app.out(), formatter.Dim(formatter.TruncID(id)))
				}
			}
			return nil
		},
	})

	return cmd
}
