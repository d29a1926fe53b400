package tags

import (
	"testing"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parserNow = time.Date(2025, 6, 10, 15, 30, 0, 0, time.Local)

func testProjects() []domain.Project {
	return []domain.Project{
		{ID: "p-acme", Name: "Acme"},
		{ID: "p-website", Name: "Website Redesign"},
		{ID: "p-intern", Name: "Internal Tools"},
	}
}

func TestParse_QuickAddExample(t *testing.T) {
	parsed := Parse("Call dentist /a /d 3 /u", testProjects(), parserNow)

	assert.Equal(t, domain.TypeToDo, parsed.Type)
	assert.True(t, parsed.IsUrgent)
	require.NotNil(t, parsed.DueDate)
	assert.Equal(t, time.Date(2025, 6, 13, 0, 0, 0, 0, time.Local), *parsed.DueDate)
	assert.Equal(t, "Call dentist", parsed.Content)
}

func TestParse_PlainTextUntouched(t *testing.T) {
	parsed := Parse("buy milk and eggs", nil, parserNow)
	assert.Equal(t, domain.TypeNote, parsed.Type)
	assert.False(t, parsed.IsUrgent)
	assert.Nil(t, parsed.DueDate)
	assert.Empty(t, parsed.ProjectIDs)
	assert.Equal(t, "buy milk and eggs", parsed.Content)
}

func TestParse_DueDateForms(t *testing.T) {
	midnight := domain.StartOfDay(parserNow)

	tests := []struct {
		name    string
		input   string
		want    *time.Time
		content string
	}{
		{"bare", "pay rent /d", timePtr(midnight), "pay rent"},
		{"relative", "pay rent /d 5", timePtr(midnight.AddDate(0, 0, 5)), "pay rent"},
		{"relative with unit", "pay rent /d 5 days", timePtr(midnight.AddDate(0, 0, 5)), "pay rent"},
		{"relative single day", "pay rent /d 1 day", timePtr(midnight.AddDate(0, 0, 1)), "pay rent"},
		{"absolute", "pay rent /d 2025-12-24", timePtr(time.Date(2025, 12, 24, 0, 0, 0, 0, time.Local)), "pay rent"},
		{"malformed stripped", "pay rent /d whenever", nil, "pay rent"},
		{"invalid calendar date stripped", "pay rent /d 2025-13-99", nil, "pay rent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := Parse(tt.input, nil, parserNow)
			if tt.want == nil {
				assert.Nil(t, parsed.DueDate)
			} else {
				require.NotNil(t, parsed.DueDate)
				assert.Equal(t, *tt.want, *parsed.DueDate)
			}
			assert.Equal(t, tt.content, parsed.Content)
		})
	}
}

func TestParse_ProjectExactMatch(t *testing.T) {
	parsed := Parse("update homepage /p website redesign", testProjects(), parserNow)
	assert.Equal(t, []string{"p-website"}, parsed.ProjectIDs)
	assert.Equal(t, "update homepage", parsed.Content)
}

func TestParse_ProjectSubstringDoesNotMatch(t *testing.T) {
	// Quick entry requires the exact name; fragments only work in search.
	parsed := Parse("update homepage /p website", testProjects(), parserNow)
	assert.Empty(t, parsed.ProjectIDs)
	assert.Equal(t, "update homepage", parsed.Content, "unmatched /p still consumes its span")
}

func TestParse_ProjectAccumulatesDeduplicated(t *testing.T) {
	parsed := Parse("sync /p acme /p internal tools /p Acme", testProjects(), parserNow)
	assert.Equal(t, []string{"p-acme", "p-intern"}, parsed.ProjectIDs)
	assert.Equal(t, "sync", parsed.Content)
}

func TestParse_LastScalarWins(t *testing.T) {
	parsed := Parse("ship release /a /n /d 2 /d 7", testProjects(), parserNow)
	assert.Equal(t, domain.TypeNote, parsed.Type, "/n after /a wins")
	require.NotNil(t, parsed.DueDate)
	assert.Equal(t, domain.StartOfDay(parserNow).AddDate(0, 0, 7), *parsed.DueDate)
}

func TestParse_CommentFlag(t *testing.T) {
	parsed := Parse("left a voicemail /c", nil, parserNow)
	assert.True(t, parsed.IsComment)
	assert.Equal(t, "left a voicemail", parsed.Content)
}

func TestParse_UnknownTagLeftInContent(t *testing.T) {
	parsed := Parse("review /x quarterly report /u", nil, parserNow)
	assert.True(t, parsed.IsUrgent)
	assert.Equal(t, "review /x quarterly report", parsed.Content)
}

func TestParse_SlashWordIsNotATag(t *testing.T) {
	parsed := Parse("either/or question /done maybe", nil, parserNow)
	assert.Nil(t, parsed.DueDate)
	assert.Equal(t, domain.TypeNote, parsed.Type)
	assert.Equal(t, "either/or question /done maybe", parsed.Content)
}

func TestParse_TagStrippingCollapsesWhitespace(t *testing.T) {
	parsed := Parse("  water   plants   /u  ", nil, parserNow)
	assert.Equal(t, "water plants", parsed.Content)
}

func TestParse_AdjacentTags(t *testing.T) {
	parsed := Parse("file taxes /a/u/d 3", nil, parserNow)
	assert.Equal(t, domain.TypeToDo, parsed.Type)
	assert.True(t, parsed.IsUrgent)
	require.NotNil(t, parsed.DueDate)
	assert.Equal(t, "file taxes", parsed.Content)
}

func TestParse_TagValueTrimmed(t *testing.T) {
	parsed := Parse("kickoff /p    Acme   ", testProjects(), parserNow)
	assert.Equal(t, []string{"p-acme"}, parsed.ProjectIDs)
	assert.Equal(t, "kickoff", parsed.Content)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
