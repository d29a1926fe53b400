package tags

import (
	"strings"
	"time"

	"github.com/antonkarev/notedeck/internal/domain"
)

// DueFilter selects how a search constrains due dates.
type DueFilter int

const (
	DueUnset  DueFilter = iota // no due-date constraint
	DueAny                     // /d        any due date present
	DueAbsent                  // /d none   no due date
	DueOn                      // /d N, /d YYYY-MM-DD  within one calendar day
)

// Criteria is a compiled search-box query. Zero-valued criteria match
// everything (no search active).
type Criteria struct {
	Type       string
	Urgent     bool
	Due        DueFilter
	DueDay     time.Time // local midnight, set when Due == DueOn
	ProjectIDs []string  // any-of; produced by substring name matches
	SessionIDs []string  // any-of; produced by substring title matches
	Status     domain.Status
	Tokens     []string // lower-cased free-text tokens, all required
}

// IsZero reports whether no criterion is active.
func (c Criteria) IsZero() bool {
	return c.Type == "" && !c.Urgent && c.Due == DueUnset &&
		len(c.ProjectIDs) == 0 && len(c.SessionIDs) == 0 &&
		c.Status == "" && len(c.Tokens) == 0
}

// CompileSearch parses the search-box mini-language. It shares the quick-entry
// tag vocabulary and adds /s (session title fragment) and /t (status label
// fragment). Unlike Parse, /p and /s match by substring, and a fragment that
// matches nothing leaves its tag text in the free-text token stream instead of
// consuming it.
func CompileSearch(text string, projects []domain.Project, sessions []domain.Session, now time.Time) Criteria {
	var c Criteria

	var consumed []tagToken
	for _, tok := range scanTags(text) {
		switch tok.letter {
		case 'a':
			c.Type = domain.TypeToDo
			consumed = append(consumed, flagSpan(tok))
		case 'n':
			c.Type = domain.TypeNote
			consumed = append(consumed, flagSpan(tok))
		case 'u':
			c.Urgent = true
			consumed = append(consumed, flagSpan(tok))
		case 'd':
			if strings.EqualFold(tok.value, "none") {
				c.Due = DueAbsent
				consumed = append(consumed, tok)
				break
			}
			if day, ok := parseDueValue(tok.value, now); ok {
				if tok.value == "" {
					c.Due = DueAny
				} else {
					c.Due = DueOn
					c.DueDay = domain.StartOfDay(day)
				}
				consumed = append(consumed, tok)
			}
		case 'p':
			span, ok := matchFragment(text, tok, func(fragment string) bool {
				ids := findProjectsSubstring(projects, fragment)
				if len(ids) == 0 {
					return false
				}
				c.ProjectIDs = appendAllUnique(c.ProjectIDs, ids)
				return true
			})
			if ok {
				consumed = append(consumed, span)
			}
		case 's':
			span, ok := matchFragment(text, tok, func(fragment string) bool {
				ids := findSessionsSubstring(sessions, fragment)
				if len(ids) == 0 {
					return false
				}
				c.SessionIDs = appendAllUnique(c.SessionIDs, ids)
				return true
			})
			if ok {
				consumed = append(consumed, span)
			}
		case 't':
			span, ok := matchFragment(text, tok, func(fragment string) bool {
				status, found := findStatusByLabel(fragment)
				if !found {
					return false
				}
				c.Status = status
				return true
			})
			if ok {
				consumed = append(consumed, span)
			}
		}
		// Anything unmatched above (including /c, which has no meaning
		// for note filtering) falls through to free-text matching.
	}

	remainder := strings.ToLower(stripSpans(text, consumed))
	c.Tokens = strings.Fields(remainder)
	return c
}

// MatchContext supplies the lookups a Criteria needs to evaluate a note.
type MatchContext struct {
	ProjectNamesByID  map[string]string
	SessionTitlesByID map[string]string
	TypeNamesByID     map[string]string
}

// Matches reports whether the note satisfies every active criterion.
func (c Criteria) Matches(n *domain.Note, mc MatchContext) bool {
	if c.Type != "" && n.Type != c.Type {
		return false
	}
	if c.Urgent && !n.IsUrgent {
		return false
	}
	switch c.Due {
	case DueAny:
		if n.DueDate == nil {
			return false
		}
	case DueAbsent:
		if n.DueDate != nil {
			return false
		}
	case DueOn:
		if n.DueDate == nil {
			return false
		}
		due := n.DueDate.Time
		if due.Before(c.DueDay) || !due.Before(c.DueDay.AddDate(0, 0, 1)) {
			return false
		}
	}
	if len(c.ProjectIDs) > 0 && !intersects(n.ProjectIDs, c.ProjectIDs) {
		return false
	}
	if len(c.SessionIDs) > 0 {
		if n.SessionID == nil || !contains(c.SessionIDs, *n.SessionID) {
			return false
		}
	}
	if c.Status != "" && domain.NormalizeStatus(n.Status) != c.Status {
		return false
	}
	if len(c.Tokens) > 0 {
		haystack := c.composeHaystack(n, mc)
		for _, token := range c.Tokens {
			if !strings.Contains(haystack, token) {
				return false
			}
		}
	}
	return true
}

// composeHaystack builds the lower-cased text free tokens are matched
// against: content, the note's project names, its session title, the type
// display name, and the status label.
func (c Criteria) composeHaystack(n *domain.Note, mc MatchContext) string {
	parts := []string{n.Content}
	for _, id := range n.ProjectIDs {
		if name, ok := mc.ProjectNamesByID[id]; ok {
			parts = append(parts, name)
		}
	}
	if n.SessionID != nil {
		if title, ok := mc.SessionTitlesByID[*n.SessionID]; ok {
			parts = append(parts, title)
		}
	}
	if name, ok := mc.TypeNamesByID[n.Type]; ok {
		parts = append(parts, name)
	} else {
		parts = append(parts, domain.TitleCase(n.Type))
	}
	parts = append(parts, n.Status.Label())
	return strings.ToLower(strings.Join(parts, " "))
}

// flagSpan narrows a valueless flag tag to its two-byte /x span. The scanner
// runs a tag's value out to the next slash, but /a, /n, and /u take no value;
// consuming the full span would swallow trailing free text ("/u payroll"
// must keep "payroll" as a required token).
func flagSpan(tok tagToken) tagToken {
	return tagToken{letter: tok.letter, start: tok.start, end: tok.start + 2}
}

// matchFragment resolves a multi-word tag value greedily: it tries the whole
// value as the fragment, then drops trailing words until match succeeds. Only
// the matched words are consumed; trailing words stay in the free-text stream.
// So "/t done project" consumes "/t done" and leaves "project" for token
// matching. Returns ok=false when no prefix matches, in which case the entire
// tag falls through to free text.
func matchFragment(text string, tok tagToken, match func(fragment string) bool) (tagToken, bool) {
	raw := text[tok.start+2 : tok.end]
	words, ends := splitWords(raw)
	for j := len(words); j >= 1; j-- {
		fragment := strings.Join(words[:j], " ")
		if match(fragment) {
			return tagToken{
				letter: tok.letter,
				value:  fragment,
				start:  tok.start,
				end:    tok.start + 2 + ends[j-1],
			}, true
		}
	}
	return tagToken{}, false
}

func findProjectsSubstring(projects []domain.Project, fragment string) []string {
	if fragment == "" {
		return nil
	}
	needle := strings.ToLower(fragment)
	var ids []string
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func findSessionsSubstring(sessions []domain.Session, fragment string) []string {
	if fragment == "" {
		return nil
	}
	needle := strings.ToLower(fragment)
	var ids []string
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.Title), needle) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// findStatusByLabel resolves a status label fragment. A fragment matching
// several labels resolves to the first in cycling order.
func findStatusByLabel(fragment string) (domain.Status, bool) {
	if fragment == "" {
		return "", false
	}
	needle := strings.ToLower(fragment)
	for _, status := range domain.StatusOrder {
		if strings.Contains(strings.ToLower(status.Label()), needle) {
			return status, true
		}
	}
	return "", false
}

func appendAllUnique(ids []string, more []string) []string {
	for _, id := range more {
		ids = appendUnique(ids, id)
	}
	return ids
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
