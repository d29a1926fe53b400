package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
	"github.com/antonkarev/notedeck/internal/domain"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Operate on a single note",
	}

	cmd.AddCommand(newNoteStatusCmd(app))
	cmd.AddCommand(newNoteTypeCmd(app))
	cmd.AddCommand(newNoteProjectCmd(app))
	cmd.AddCommand(newNoteEditCmd(app))
	cmd.AddCommand(newNoteDeleteCmd(app))

	return cmd
}

func newNoteStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status NOTE",
		Short: "Cycle a note's status (not started, in progress, done)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}
			status, err := app.Tracker.CycleStatus(cmd.Context(), noteID)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "%s is now %s\n", formatter.TruncID(noteID), formatter.StatusPill(status))
			return nil
		},
	}
}

func newNoteTypeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "type NOTE",
		Short: "Cycle a note through the configured note types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}
			typeID, err := app.Tracker.CycleType(cmd.Context(), noteID)
			if err != nil {
				return err
			}
			_, idx := dataIndex(app)
			name := typeID
			if nt, ok := idx.NoteTypesByID[typeID]; ok {
				name = domain.TitleCase(nt.Name)
			}
			fmt.Fprintf(app.out(), "%s is now a %s\n", formatter.TruncID(noteID), formatter.Bold(name))
			return nil
		},
	}
}

func newNoteProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage a note's project assignments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add NOTE PROJECT",
		Short: "Assign a project to a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(app, args[1])
			if err != nil {
				return err
			}
			if err := app.Tracker.AddProjectToNote(cmd.Context(), noteID, projectID); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Added project to %s\n", formatter.TruncID(noteID))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NOTE PROJECT",
		Short: "Remove a project from a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}
			projectID, err := resolveProjectID(app, args[1])
			if err != nil {
				return err
			}
			if err := app.Tracker.RemoveProjectFromNote(cmd.Context(), noteID, projectID); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Removed project from %s\n", formatter.TruncID(noteID))
			return nil
		},
	})

	return cmd
}

func newNoteEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit NOTE CONTENT...",
		Short: "Replace a note's content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if err := app.Tracker.EditNote(cmd.Context(), noteID, content); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Updated %s\n", formatter.TruncID(noteID))
			return nil
		},
	}
}

func newNoteDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NOTE",
		Short: "Delete a note and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noteID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}
			_, idx := dataIndex(app)
			summary := formatter.TruncID(noteID)
			if n, ok := idx.NotesByID[noteID]; ok {
				summary = formatter.NoteSummary(n, idx)
			}

			ok, err := confirmDestructive(app, fmt.Sprintf("Delete %q and its replies?", summary), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(app.out(), formatter.Dim("Cancelled."))
				return nil
			}

			if err := app.Tracker.DeleteNote(cmd.Context(), noteID); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Deleted %s\n", formatter.TruncID(noteID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
