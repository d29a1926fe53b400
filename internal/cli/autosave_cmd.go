package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
	"github.com/antonkarev/notedeck/internal/remote"
)

func newAutosaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosave",
		Short: "Inspect and restore periodic snapshots",
	}

	cmd.AddCommand(newAutosaveListCmd(app))
	cmd.AddCommand(newAutosaveRestoreCmd(app))
	cmd.AddCommand(newAutosaveWatchCmd(app))

	return cmd
}

func newAutosaveListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List autosave snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metas, err := app.Tracker.ListAutosaves(cmd.Context())
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("No autosaves yet."))
				return nil
			}
			rows := make([][]string, 0, len(metas))
			for _, m := range metas {
				rows = append(rows, []string{
					formatter.Dim(formatter.TruncID(m.ID)),
					formatter.HumanTimestamp(m.CreatedAt.Local()),
				})
			}
			fmt.Fprint(app.out(), formatter.RenderTable([]string{"ID", "Saved"}, rows))
			return nil
		},
	}
}

func newAutosaveRestoreCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore ID",
		Short: "Replace the current state with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(app, "Replace the current state with this snapshot?", yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(app.out(), formatter.Dim("Cancelled."))
				return nil
			}
			if err := app.Tracker.RestoreAutosave(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Restored snapshot %s\n", formatter.TruncID(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func newAutosaveWatchCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Record a snapshot periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loop := remote.NewAutosaveLoop(app.Tracker.RecordAutosave, interval, app.Logger)
			loop.Start(ctx)
			fmt.Fprintf(app.out(), "Recording a snapshot every %s. Ctrl-C to stop.\n", interval)

			<-ctx.Done()
			loop.Stop()
			fmt.Fprintln(app.out(), "Stopped.")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", remote.DefaultAutosaveInterval, "Time between snapshots")
	return cmd
}
