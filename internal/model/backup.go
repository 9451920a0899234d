package model

// Backup is the export format. Restore requires every field except Logs.
type Backup struct {
	Users      []User           `json:"users"`
	Documents  []Document       `json:"documents"`
	Branding   BrandingSettings `json:"branding"`
	Categories []string         `json:"categories"`
	Logs       []LogEntry       `json:"logs"`
}
