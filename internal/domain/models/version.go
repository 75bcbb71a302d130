package models

import "time"

// DocumentVersion is an immutable snapshot of a document's content. The
// (document_id, version_number) pair is unique; numbers are assigned by the
// store in insertion order.
type DocumentVersion struct {
	ID                string    `json:"id" db:"id"`
	DocumentID        string    `json:"document_id" db:"document_id"`
	Content           Delta     `json:"content" db:"content"`
	VersionNumber     int       `json:"version_number" db:"version_number"`
	CreatedBy         string    `json:"created_by" db:"created_by"`
	ChangeDescription string    `json:"change_description" db:"change_description"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// VersionSummary is the list shape (no content blob).
type VersionSummary struct {
	ID                string    `json:"id" db:"id"`
	DocumentID        string    `json:"document_id" db:"document_id"`
	VersionNumber     int       `json:"version_number" db:"version_number"`
	CreatedBy         string    `json:"created_by" db:"created_by"`
	ChangeDescription string    `json:"change_description" db:"change_description"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// ChangeType tags one record of a structural diff between two versions.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// ChangeRecord is one entry in a version comparison: an operation that was
// added, removed, or changed between the two snapshots. Index is the position
// in the newer snapshot's op list for added/changed records, and the position
// in the older snapshot's op list for removed records.
type ChangeRecord struct {
	Type   ChangeType `json:"type"`
	Index  int        `json:"index"`
	Before *Op        `json:"before,omitempty"`
	After  *Op        `json:"after,omitempty"`
}
