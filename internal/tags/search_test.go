package tags

import (
	"testing"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var searchNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)

func testSessions() []domain.Session {
	return []domain.Session{
		{ID: "s-weekly", ProjectID: "p-acme", Title: "Weekly Sync", Type: domain.SessionMeeting},
		{ID: "s-kickoff", ProjectID: "p-website", Title: "Kickoff Call", Type: domain.SessionPhoneCall},
	}
}

func compile(t *testing.T, query string) Criteria {
	t.Helper()
	return CompileSearch(query, testProjects(), testSessions(), searchNow)
}

func TestCompileSearch_Empty(t *testing.T) {
	assert.True(t, compile(t, "").IsZero())
	assert.True(t, compile(t, "   ").IsZero())
}

func TestCompileSearch_FreeTextTokens(t *testing.T) {
	c := compile(t, "  Budget   REVIEW ")
	assert.Equal(t, []string{"budget", "review"}, c.Tokens)
	assert.False(t, c.IsZero())
}

func TestCompileSearch_ProjectSubstring(t *testing.T) {
	c := compile(t, "/p website")
	assert.Equal(t, []string{"p-website"}, c.ProjectIDs)
	assert.Empty(t, c.Tokens)
}

func TestCompileSearch_ProjectFragmentMatchesMany(t *testing.T) {
	// "e" appears in every test project name.
	c := compile(t, "/p e")
	assert.Len(t, c.ProjectIDs, 3)
}

func TestCompileSearch_UnmatchedProjectFallsBackToFreeText(t *testing.T) {
	c := compile(t, "/p nonexistent")
	assert.Empty(t, c.ProjectIDs)
	assert.Equal(t, []string{"/p", "nonexistent"}, c.Tokens,
		"invalid /p must stay eligible for token matching")
}

func TestCompileSearch_SessionSubstring(t *testing.T) {
	c := compile(t, "/s kick")
	assert.Equal(t, []string{"s-kickoff"}, c.SessionIDs)
}

func TestCompileSearch_StatusFragmentPlusFreeText(t *testing.T) {
	c := compile(t, "/t done project")
	assert.Equal(t, domain.StatusDone, c.Status)
	assert.Equal(t, []string{"project"}, c.Tokens,
		"words past the matched fragment stay free text")
}

func TestCompileSearch_StatusFragmentFirstInOrderWins(t *testing.T) {
	// "n" is a substring of every label; cycling order breaks the tie.
	c := compile(t, "/t n")
	assert.Equal(t, domain.StatusNotStarted, c.Status)
}

func TestCompileSearch_MultiWordSessionFragment(t *testing.T) {
	c := compile(t, "/s weekly sync budget")
	assert.Equal(t, []string{"s-weekly"}, c.SessionIDs)
	assert.Equal(t, []string{"budget"}, c.Tokens)
}

func TestCompileSearch_DueForms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		due   DueFilter
	}{
		{"bare requires any due date", "/d", DueAny},
		{"none requires absence", "/d none", DueAbsent},
		{"relative day window", "/d 3", DueOn},
		{"absolute day window", "/d 2025-06-13", DueOn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compile(t, tt.query)
			assert.Equal(t, tt.due, c.Due)
			if tt.due == DueOn {
				assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.Local), c.DueDay)
			}
		})
	}
}

func TestCompileSearch_MalformedDueFallsBackToFreeText(t *testing.T) {
	c := compile(t, "/d whenever")
	assert.Equal(t, DueUnset, c.Due)
	assert.Equal(t, []string{"/d", "whenever"}, c.Tokens)
}

func TestCompileSearch_TypeAndUrgent(t *testing.T) {
	c := compile(t, "/a /u meeting")
	assert.Equal(t, domain.TypeToDo, c.Type)
	assert.True(t, c.Urgent)
	assert.Equal(t, []string{"meeting"}, c.Tokens)
}

func TestCompileSearch_FlagTagKeepsTrailingWords(t *testing.T) {
	c := compile(t, "/u payroll review")
	assert.True(t, c.Urgent)
	assert.Equal(t, []string{"payroll", "review"}, c.Tokens,
		"a valueless flag consumes only its own two characters")

	c = compile(t, "budget /n followup")
	assert.Equal(t, domain.TypeNote, c.Type)
	assert.Equal(t, []string{"budget", "followup"}, c.Tokens)
}

func matchContext() MatchContext {
	return MatchContext{
		ProjectNamesByID:  map[string]string{"p-acme": "Acme", "p-website": "Website Redesign"},
		SessionTitlesByID: map[string]string{"s-weekly": "Weekly Sync"},
		TypeNamesByID:     map[string]string{domain.TypeNote: "Note", domain.TypeToDo: "To Do"},
	}
}

func sampleNote() domain.Note {
	sessionID := "s-weekly"
	due := domain.NewMillis(time.Date(2025, 6, 13, 0, 0, 0, 0, time.Local))
	return domain.Note{
		ID:         "n-1",
		ProjectIDs: []string{"p-acme"},
		SessionID:  &sessionID,
		Type:       domain.TypeToDo,
		Content:    "Prepare budget review",
		DueDate:    &due,
		Status:     domain.StatusInProgress,
		IsUrgent:   true,
	}
}

func TestCriteriaMatches_AllPredicatesAND(t *testing.T) {
	note := sampleNote()
	mc := matchContext()

	assert.True(t, compile(t, "/a /u budget").Matches(&note, mc))
	assert.False(t, compile(t, "/n /u budget").Matches(&note, mc), "type mismatch fails")
	assert.False(t, compile(t, "/a /u payroll").Matches(&note, mc), "missing token fails")
}

func TestCriteriaMatches_HaystackIncludesLookupNames(t *testing.T) {
	note := sampleNote()
	mc := matchContext()

	assert.True(t, compile(t, "acme").Matches(&note, mc), "project name is searchable")
	assert.True(t, compile(t, "weekly").Matches(&note, mc), "session title is searchable")
	assert.True(t, compile(t, "progress").Matches(&note, mc), "status label is searchable")
	assert.True(t, compile(t, "to do").Matches(&note, mc), "type display name is searchable")
}

func TestCriteriaMatches_DueWindowHalfOpen(t *testing.T) {
	note := sampleNote()
	mc := matchContext()

	onDay := compile(t, "/d 3")
	require.Equal(t, DueOn, onDay.Due)
	assert.True(t, onDay.Matches(&note, mc))

	dayAfter := compile(t, "/d 4")
	assert.False(t, dayAfter.Matches(&note, mc))

	endOfDay := domain.NewMillis(time.Date(2025, 6, 13, 23, 59, 59, 0, time.Local))
	note.DueDate = &endOfDay
	assert.True(t, onDay.Matches(&note, mc), "interval is [start, start+24h)")

	nextMidnight := domain.NewMillis(time.Date(2025, 6, 14, 0, 0, 0, 0, time.Local))
	note.DueDate = &nextMidnight
	assert.False(t, onDay.Matches(&note, mc), "next midnight is outside the window")
}

func TestCriteriaMatches_DueAbsent(t *testing.T) {
	note := sampleNote()
	note.DueDate = nil
	assert.True(t, compile(t, "/d none").Matches(&note, matchContext()))
	assert.False(t, compile(t, "/d").Matches(&note, matchContext()))
}

func TestCriteriaMatches_SessionAndProjectSets(t *testing.T) {
	note := sampleNote()
	mc := matchContext()

	assert.True(t, compile(t, "/p acme").Matches(&note, mc))
	assert.False(t, compile(t, "/p website").Matches(&note, mc))
	assert.True(t, compile(t, "/s weekly").Matches(&note, mc))

	note.SessionID = nil
	assert.False(t, compile(t, "/s weekly").Matches(&note, mc))
}
