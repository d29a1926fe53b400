package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/antonkarev/notedeck/internal/domain"
	"github.com/antonkarev/notedeck/internal/pipeline"
	"github.com/antonkarev/notedeck/internal/state"
)

const (
	treeIndent  = "   "
	commentMark = "· "
)

// NoteSummary renders a one-line description of a note: status marker,
// content, and its project names.
func NoteSummary(n *domain.Note, idx *state.Index) string {
	parts := []string{noteTitle(n)}
	if names := projectNames(n, idx); names != "" {
		parts = append(parts, StyleBlue.Render("["+names+"]"))
	}
	return strings.Join(parts, " ")
}

// RenderBuckets renders grouped top-level notes with their row trees. Empty
// buckets are skipped except under due-date grouping, where the fixed bucket
// set always shows.
func RenderBuckets(buckets []pipeline.Bucket, idx *state.Index, res pipeline.Result, opts pipeline.RowOptions, showEmpty bool, now time.Time) string {
	var b strings.Builder
	for i, bucket := range buckets {
		if len(bucket.Notes) == 0 && !showEmpty {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(fmt.Sprintf("%s (%d)", bucket.Key, len(bucket.Notes))))
		b.WriteString("\n")
		for _, note := range bucket.Notes {
			rows := pipeline.BuildRows(note, idx, res, opts)
			b.WriteString(RenderRows(rows, idx, now))
		}
	}
	return b.String()
}

// RenderRows renders one top-level note's row tree. Notes show a status
// marker and right-aligned badges for due date, projects, and counts;
// comment rows render dimmed beneath their note.
func RenderRows(rows []pipeline.Row, idx *state.Index, now time.Time) string {
	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, 0, len(rows))
	maxContentWidth := 0

	for _, row := range rows {
		prefix := strings.Repeat(treeIndent, row.Depth)

		var content, badge string
		switch row.Kind {
		case pipeline.RowNote:
			content = prefix + noteTitle(row.Note)
			if row.Collapsed && row.ChildCount > 0 {
				content += Dim(fmt.Sprintf(" (+%d)", row.ChildCount))
			}
			badge = noteBadge(row, idx, now)
		case pipeline.RowComment:
			content = prefix + Dim(commentMark+row.Comment.Content)
		case pipeline.RowCommentInput:
			content = prefix + Dim(commentMark+"…")
		}

		lines = append(lines, lineInfo{content: content, badge: badge})
		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}
	return b.String()
}

func noteTitle(n *domain.Note) string {
	marker := ""
	title := n.Content

	switch domain.NormalizeStatus(n.Status) {
	case domain.StatusDone:
		marker = StyleGreen.Render("✔ ")
		title = Dim(title)
	case domain.StatusInProgress:
		marker = StyleYellowBold.Render("▶ ")
		title = StyleYellowBold.Render(title)
	default:
		if n.Type == domain.TypeToDo {
			marker = StyleDim.Render("□ ")
		}
	}

	if badge := UrgentBadge(n.IsUrgent); badge != "" {
		marker = badge + " " + marker
	}
	return marker + title
}

func noteBadge(row pipeline.Row, idx *state.Index, now time.Time) string {
	n := row.Note
	var parts []string

	if n.DueDate != nil {
		parts = append(parts, DueDateStyled(n.DueDate.Time, now))
	}
	if names := projectNames(n, idx); names != "" {
		parts = append(parts, StyleBlue.Render(names))
	}
	if n.SessionID != nil {
		if s, ok := idx.SessionsByID[*n.SessionID]; ok {
			parts = append(parts, StylePurple.Render("@"+s.Title))
		}
	}
	if row.CommentCount > 0 && !row.CommentsExpanded {
		parts = append(parts, Dim(fmt.Sprintf("%d comments", row.CommentCount)))
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, Dim(" · "))
}

func projectNames(n *domain.Note, idx *state.Index) string {
	var names []string
	for _, id := range n.ProjectIDs {
		if p, ok := idx.ProjectsByID[id]; ok {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}
