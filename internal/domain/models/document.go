package models

import "time"

// ContentSource tags where a document read was served from: the durable store,
// or the transient cache while the document has live subscribers.
type ContentSource string

const (
	SourcePostgres ContentSource = "postgres"
	SourceCache    ContentSource = "cache"
)

type Document struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   Delta     `json:"content" db:"content"` // jsonb delta
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DocumentRead is the GET response shape: the document plus where its content
// came from, so clients can tell durable state from in-flight edits.
type DocumentRead struct {
	Document
	Source ContentSource `json:"source"`
}

// DocumentSummary is the list/recent shape (no content blob).
type DocumentSummary struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserActivity is the per-user dashboard summary.
type UserActivity struct {
	DocumentsCreated int `json:"documents_created"`
	DocumentsShared  int `json:"documents_shared"`
}
