package domain

// Project groups notes and sessions. Names are unique in practice and looked
// up case-insensitively by the tag parser and search compiler.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Details   string `json:"details"`
	CreatedAt Millis `json:"createdAt"`
	UpdatedAt Millis `json:"updatedAt"`
}

// Person participates in sessions.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NoteType describes a note category. The two system types (note, to_do) are
// always present; users may define additional ones.
type NoteType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsSystem bool   `json:"isSystem"`
}

// Settings is the per-user preference blob carried inside the stored state.
type Settings struct {
	APIKey      string `json:"apiKey"`
	AutoAnalyze bool   `json:"autoAnalyze"`
}
