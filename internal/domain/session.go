package domain

// Session is a time-boxed work period tied to a project. At most one session
// is active at a time; starting a new one implicitly ends the previous.
type Session struct {
	ID           string      `json:"id"`
	ProjectID    string      `json:"projectId"`
	Title        string      `json:"title"`
	Type         SessionType `json:"type"`
	Participants []string    `json:"participants"`
	StartTime    Millis      `json:"startTime"`
	EndTime      *Millis     `json:"endTime"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    Millis      `json:"createdAt"`
}
