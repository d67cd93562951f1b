package model

import "time"

// Run is the persisted record of one ingestion pass: the document source,
// who submitted it, and summary counts from validation and planning.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`

	NodeCount    int  `json:"node_count"`
	EdgeCount    int  `json:"edge_count"`
	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`
	Clean        bool `json:"clean"`
	// Planned is true when a study plan was computed for this run.
	Planned bool `json:"planned"`
}

// RunFilter holds criteria for querying runs.
type RunFilter struct {
	Source    string `json:"source,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	// Clean filters on the clean flag when non-nil.
	Clean  *bool  `json:"clean,omitempty"`
	Sort   string `json:"sort,omitempty"` // e.g. "-created_at"; prefix "-" = descending
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
