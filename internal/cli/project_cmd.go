package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(newProjectAddCmd(app))
	cmd.AddCommand(newProjectListCmd(app))
	cmd.AddCommand(newPersonAddCmd(app))

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var details string

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			project, err := app.Tracker.AddProject(cmd.Context(), name, details)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Added project %s %s\n", formatter.TruncID(project.ID), formatter.Bold(project.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&details, "details", "", "Free-form project description")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with note counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _ := dataIndex(app)
			if len(d.Projects) == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("No projects."))
				return nil
			}

			counts := make(map[string]int)
			for i := range d.Notes {
				for _, pid := range d.Notes[i].ProjectIDs {
					counts[pid]++
				}
			}

			rows := make([][]string, 0, len(d.Projects))
			for _, p := range d.Projects {
				rows = append(rows, []string{
					formatter.Dim(formatter.TruncID(p.ID)),
					p.Name,
					fmt.Sprintf("%d", counts[p.ID]),
					formatter.RelativeDate(p.CreatedAt.Time),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "Name", "Notes", "Created"}, rows))
			return nil
		},
	}
}

func newPersonAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "person NAME...",
		Short: "Register a person for session participation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			person, err := app.Tracker.AddPerson(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Added %s\n", formatter.Bold(person.Name))
			return nil
		},
	}
}
