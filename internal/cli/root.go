package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/service"
)

// App holds the services and environment the CLI commands run against.
type App struct {
	Tracker *service.TrackerService
	Sync    *service.SyncService
	Logger  *slog.Logger

	// IsInteractive reports whether confirmation prompts may be shown.
	IsInteractive func() bool

	// Out receives command output; defaults to stdout.
	Out io.Writer
}

func (a *App) out() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "notedeck" command and registers all
// subcommands against the provided App. State is loaded before any
// subcommand runs and flushed after it finishes.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "notedeck",
		Short:         "Hierarchical note and task tracker with inline tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Tracker.Load(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Tracker.Flush(cmd.Context())
		},
	}

	root.AddCommand(
		newAddCmd(app),
		newThreadCmd(app),
		newListCmd(app),
		newNoteCmd(app),
		newSelectCmd(app),
		newBulkCmd(app),
		newUndoCmd(app),
		newSessionCmd(app),
		newProjectCmd(app),
		newAutosaveCmd(app),
		newSyncCmd(app),
	)

	return root
}
