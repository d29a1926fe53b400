package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
	"github.com/antonkarev/notedeck/internal/domain"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, end, and list work sessions",
	}

	cmd.AddCommand(newSessionStartCmd(app))
	cmd.AddCommand(newSessionEndCmd(app))
	cmd.AddCommand(newSessionListCmd(app))

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	var (
		sessionType  string
		participants []string
	)

	cmd := &cobra.Command{
		Use:   "start PROJECT TITLE...",
		Short: "Start a session; notes added while it runs are tagged with it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(app, args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")

			st := domain.SessionType(sessionType)
			switch st {
			case domain.SessionMeeting, domain.SessionPhoneCall:
			default:
				return fmt.Errorf("unknown session type %q, expected meeting or phone_call", sessionType)
			}

			d, _ := dataIndex(app)
			participantIDs := make([]string, 0, len(participants))
			for _, name := range participants {
				id, ok := personIDByName(d.People, name)
				if !ok {
					return fmt.Errorf("unknown person %q", name)
				}
				participantIDs = append(participantIDs, id)
			}

			session, err := app.Tracker.StartSession(cmd.Context(), projectID, title, st, participantIDs)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Started session %s %s\n", formatter.TruncID(session.ID), formatter.Bold(session.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionType, "type", string(domain.SessionMeeting), "Session type: meeting or phone_call")
	cmd.Flags().StringSliceVar(&participants, "with", nil, "Participant names")
	return cmd
}

func newSessionEndCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "end [SESSION]",
		Short: "End a session (defaults to the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sessionID string
			if len(args) == 1 {
				id, err := resolveSessionID(app, args[0])
				if err != nil {
					return err
				}
				sessionID = id
			} else {
				_, idx := dataIndex(app)
				if idx.ActiveSession == nil {
					return fmt.Errorf("no active session")
				}
				sessionID = idx.ActiveSession.ID
			}
			if err := app.Tracker.EndSession(cmd.Context(), sessionID); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Ended session %s\n", formatter.TruncID(sessionID))
			return nil
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, idx := dataIndex(app)
			if len(d.Sessions) == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("No sessions."))
				return nil
			}

			sessions := make([]domain.Session, len(d.Sessions))
			copy(sessions, d.Sessions)
			for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
				sessions[i], sessions[j] = sessions[j], sessions[i]
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				projectName := ""
				if p, ok := idx.ProjectsByID[s.ProjectID]; ok {
					projectName = p.Name
				}
				status := formatter.Dim("ended")
				if s.IsActive {
					status = formatter.StyleGreen.Render("active")
				}
				rows = append(rows, []string{
					formatter.Dim(formatter.TruncID(s.ID)),
					s.Title,
					projectName,
					domain.TitleCase(string(s.Type)),
					status,
					formatter.RelativeDate(s.StartTime.Time),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable(
				[]string{"ID", "Title", "Project", "Type", "Status", "Started"}, rows))
			return nil
		},
	}
}

func personIDByName(people []domain.Person, name string) (string, bool) {
	for _, p := range people {
		if strings.EqualFold(p.Name, name) {
			return p.ID, true
		}
	}
	return "", false
}
