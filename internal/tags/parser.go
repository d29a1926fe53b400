package tags

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
)

// Parsed is the structured result of parsing a quick-entry line. Content has
// every consumed tag span removed, with whitespace collapsed and trimmed.
type Parsed struct {
	Type       string
	IsUrgent   bool
	DueDate    *time.Time
	ProjectIDs []string
	IsComment  bool
	Content    string
}

var (
	relativeDays = regexp.MustCompile(`^(\d+)\s*(?i:days?)?$`)
	absoluteDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Parse extracts inline tags from a quick-entry line:
//
//	/a  to-do   /n  note    /u  urgent    /c  comment
//	/d [N [days] | YYYY-MM-DD]  due date (bare /d means today)
//	/p <name>   project by exact case-insensitive name
//
// Scalar tags take the last occurrence; /p accumulates into the project set.
// A /p name that matches no known project consumes its span without producing
// a reference. Malformed /d values consume their span without setting a due
// date. Unknown tag letters are left in the content untouched.
func Parse(text string, projects []domain.Project, now time.Time) Parsed {
	result := Parsed{Type: domain.TypeNote, Content: text}

	var consumed []tagToken
	for _, tok := range scanTags(text) {
		switch tok.letter {
		case 'a':
			result.Type = domain.TypeToDo
			consumed = append(consumed, tok)
		case 'n':
			result.Type = domain.TypeNote
			consumed = append(consumed, tok)
		case 'u':
			result.IsUrgent = true
			consumed = append(consumed, tok)
		case 'c':
			result.IsComment = true
			consumed = append(consumed, tok)
		case 'd':
			due, ok := parseDueValue(tok.value, now)
			if ok {
				result.DueDate = &due
			}
			// Malformed values still consume the span; the due date
			// simply stays unset.
			consumed = append(consumed, tok)
		case 'p':
			if id, ok := findProjectExact(projects, tok.value); ok {
				result.ProjectIDs = appendUnique(result.ProjectIDs, id)
			}
			consumed = append(consumed, tok)
		default:
			// Unrecognized letter: free text, keep it.
		}
	}

	result.Content = stripSpans(text, consumed)
	return result
}

// parseDueValue resolves a /d tag value to a local-midnight timestamp. An
// empty value means today. Returns ok=false for malformed values.
func parseDueValue(value string, now time.Time) (time.Time, bool) {
	if value == "" {
		return domain.StartOfDay(now), true
	}
	if m := relativeDays.FindStringSubmatch(value); m != nil {
		days, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return domain.StartOfDay(now).AddDate(0, 0, days), true
	}
	if absoluteDate.MatchString(value) {
		parsed, err := time.ParseInLocation("2006-01-02", value, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func findProjectExact(projects []domain.Project, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p.ID, true
		}
	}
	return "", false
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
