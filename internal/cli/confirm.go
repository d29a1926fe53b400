package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
)

// notedeckHuhTheme styles the confirmation prompt with the same gruvbox
// palette the rest of the output uses.
func notedeckHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmDestructive asks the user to confirm a destructive action. When the
// session is non-interactive the prompt cannot be shown, so the action is
// refused unless --yes was passed.
func confirmDestructive(app *App, prompt string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !app.interactive() {
		return false, errors.New("refusing without confirmation; re-run with --yes")
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(notedeckHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
