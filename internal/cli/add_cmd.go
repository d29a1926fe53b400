package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
	"github.com/antonkarev/notedeck/internal/state"
)

func newAddCmd(app *App) *cobra.Command {
	var (
		project  string
		noteType string
		due      string
		urgent   bool
	)

	cmd := &cobra.Command{
		Use:   "add TEXT",
		Short: "Add a note from a quick-entry line with inline tags",
		Long: `Add a top-level note. The text may carry inline tags:
  /a          mark as to-do        /n          mark as plain note
  /u          mark urgent          /d [when]   due date (today, "3 days", YYYY-MM-DD)
  /p NAME     attach a project (exact name)
Tags are stripped from the stored content.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applied := state.AppliedTags{IsUrgent: urgent}

			if noteType != "" {
				typeID, err := resolveTypeID(app, noteType)
				if err != nil {
					return err
				}
				applied.Type = typeID
			}
			if project != "" {
				projectID, err := resolveProjectID(app, project)
				if err != nil {
					return err
				}
				applied.ProjectID = projectID
			}
			if due != "" {
				day, err := time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				applied.DueDate = &day
			}

			note, err := app.Tracker.AddQuickNote(cmd.Context(), strings.Join(args, " "), applied, "")
			if err != nil {
				return err
			}

			_, idx := dataIndex(app)
			fmt.Fprintf(app.out(), "Added %s %s\n",
				formatter.TruncID(note.ID), formatter.NoteSummary(note, idx))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Attach a project by name or ID")
	cmd.Flags().StringVar(&noteType, "type", "", "Note type (note, to_do, or a custom type)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "Mark the note urgent")

	return cmd
}

func newThreadCmd(app *App) *cobra.Command {
	var (
		comment bool
		urgent  bool
		due     string
	)

	cmd := &cobra.Command{
		Use:   "thread NOTE TEXT",
		Short: "Add a child item under an existing note",
		Long: `Add a thread item under a note. Plain items whose text starts with //
become comments; everything else becomes a child note inheriting the
parent's projects.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := resolveNoteID(app, args[0])
			if err != nil {
				return err
			}

			entry := state.Entry{
				Content:   strings.Join(args[1:], " "),
				IsUrgent:  urgent,
				IsComment: comment,
			}
			if due != "" {
				day, err := time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				entry.DueDate = &day
			}

			id, isComment, err := app.Tracker.AddThreadItem(cmd.Context(), parentID, entry)
			if err != nil {
				return err
			}

			kind := "note"
			if isComment {
				kind = "comment"
			}
			fmt.Fprintf(app.out(), "Added %s %s under %s\n",
				kind, formatter.TruncID(id), formatter.TruncID(parentID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&comment, "comment", false, "Force the item to be a comment")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "Mark the child note urgent")
	cmd.Flags().StringVar(&due, "due", "", "Due date for the child note (YYYY-MM-DD)")

	return cmd
}
