package domain

// Note is a hierarchical task/note item. ParentID links child notes to their
// parent; nil means top level. ProjectIDs is maintained as a deduplicated set.
type Note struct {
	ID         string   `json:"id"`
	ParentID   *string  `json:"parentId"`
	ProjectIDs []string `json:"projectIds"`
	SessionID  *string  `json:"sessionId"`
	Type       string   `json:"type"`
	Content    string   `json:"content"`
	DueDate    *Millis  `json:"dueDate"`
	Status     Status   `json:"status"`
	IsUrgent   bool     `json:"isUrgent"`
	CreatedAt  Millis   `json:"createdAt"`
	UpdatedAt  Millis   `json:"updatedAt"`
}

// HasProject reports whether the note references the given project.
func (n *Note) HasProject(projectID string) bool {
	for _, id := range n.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}

// AddProject appends projectID preserving set semantics. Returns true when
// the set changed.
func (n *Note) AddProject(projectID string) bool {
	if projectID == "" || n.HasProject(projectID) {
		return false
	}
	n.ProjectIDs = append(n.ProjectIDs, projectID)
	return true
}

// RemoveProject removes projectID if present. Removal of an absent project
// is a no-op.
func (n *Note) RemoveProject(projectID string) bool {
	for i, id := range n.ProjectIDs {
		if id == projectID {
			n.ProjectIDs = append(n.ProjectIDs[:i], n.ProjectIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Comment is a leaf-only annotation attached to a note. Comments never have
// children and always render below their note's subtree.
type Comment struct {
	ID        string  `json:"id"`
	NoteID    string  `json:"noteId"`
	Content   string  `json:"content"`
	Type      string  `json:"type"`
	SessionID *string `json:"sessionId"`
	CreatedAt Millis  `json:"createdAt"`
}
