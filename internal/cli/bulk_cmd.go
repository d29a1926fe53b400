package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
	"github.com/antonkarev/notedeck/internal/domain"
)

func newBulkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply an action to the selected notes",
		Long: `Apply an action to the current selection. Notes passed as arguments
are selected first, replacing the existing selection.`,
	}

	cmd.AddCommand(newBulkStatusCmd(app))
	cmd.AddCommand(newBulkDeleteCmd(app))

	return cmd
}

// selectArgs replaces the selection with the given note references, if any.
func selectArgs(app *App, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		noteID, err := resolveNoteID(app, ref)
		if err != nil {
			return err
		}
		ids = append(ids, noteID)
	}
	app.Tracker.Store().ClearSelection()
	app.Tracker.Store().Select(ids...)
	return nil
}

func newBulkStatusCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "status STATUS [NOTE...]",
		Short: "Set the status of every selected note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := domain.ParseStatus(args[0])
			if !ok {
				return fmt.Errorf("unknown status %q, expected not_started, in_progress, or done", args[0])
			}
			if err := selectArgs(app, args[1:]); err != nil {
				return err
			}
			selected := app.Tracker.Store().SelectedIDs()
			if len(selected) == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("Nothing selected."))
				return nil
			}

			prompt := fmt.Sprintf("Set %d notes to %s?", len(selected), status.Label())
			ok, err := confirmDestructive(app, prompt, yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(app.out(), formatter.Dim("Cancelled."))
				return nil
			}

			count, err := app.Tracker.BulkSetStatus(cmd.Context(), status)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Set %d notes to %s\n", count, formatter.StatusPill(status))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func newBulkDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [NOTE...]",
		Short: "Delete every selected note and its subtree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := selectArgs(app, args); err != nil {
				return err
			}
			selected := app.Tracker.Store().SelectedIDs()
			if len(selected) == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("Nothing selected."))
				return nil
			}

			ok, err := confirmDestructive(app, fmt.Sprintf("Delete %d notes and their replies?", len(selected)), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(app.out(), formatter.Dim("Cancelled."))
				return nil
			}

			count, err := app.Tracker.BulkDelete(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Deleted %d notes\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
