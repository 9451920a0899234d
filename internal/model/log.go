package model

// LogEntry is one line of the activity log.
type LogEntry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	UserName  string         `json:"userName"`
	Action    string         `json:"action"`
	Timestamp string         `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}
