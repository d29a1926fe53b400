package cli

import (
	"fmt"
	"strings"

	"github.com/antonkarev/notedeck/internal/state"
)

func resolveNoteID(app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("note ID is required")
	}
	d := app.Tracker.Store().Data()

	// 1. Exact ID match
	for _, n := range d.Notes {
		if n.ID == input {
			return n.ID, nil
		}
	}

	// 2. ID prefix match
	var matches []string
	for _, n := range d.Notes {
		if strings.HasPrefix(n.ID, input) {
			matches = append(matches, n.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("note not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("note ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func resolveProjectID(app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}
	d := app.Tracker.Store().Data()

	// 1. Exact name match (case-insensitive)
	for _, p := range d.Projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	// 2. Exact or prefix ID match
	var matches []string
	for _, p := range d.Projects {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project %q is ambiguous (%d matches)", input, len(matches))
	}
}

func resolveSessionID(app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("session is required")
	}
	d := app.Tracker.Store().Data()

	for _, s := range d.Sessions {
		if strings.EqualFold(s.Title, input) {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range d.Sessions {
		if s.ID == input {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("session not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTypeID accepts a note type by id or display name.
func resolveTypeID(app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("type is required")
	}
	d := app.Tracker.Store().Data()
	for _, t := range d.NoteTypes {
		if t.ID == input || strings.EqualFold(t.Name, input) {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("note type not found: %q", input)
}

func dataIndex(app *App) (state.Data, *state.Index) {
	d := app.Tracker.Store().Data()
	return d, state.NewIndex(d)
}
