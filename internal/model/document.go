package model

// Document is a record in the document registry.
// Records are immutable after upload; only deletion changes the registry.
// File content lives in object storage under FileKey; documents seeded
// without a file leave the file fields empty.
type Document struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Category    string `json:"category" yaml:"category"`
	Date        string `json:"date" yaml:"date"` // YYYY-MM-DD
	Description string `json:"description" yaml:"description"`
	Keywords    string `json:"keywords" yaml:"keywords"`
	FileKey     string `json:"fileKey,omitempty" yaml:"fileKey,omitempty"`
	FileName    string `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// HasFile reports whether the document carries downloadable content.
func (d Document) HasFile() bool {
	return d.FileKey != "" && d.FileName != ""
}

// CategoryStat is the number of documents filed under one category.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DocumentStats summarizes the registry for the dashboard cards.
type DocumentStats struct {
	Total      int            `json:"total"`
	Categories []CategoryStat `json:"categories"`
}
