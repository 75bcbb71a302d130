package models

import "time"

// AccessType is the standing permission level granted on a document. The
// creator is an implicit third level above editor and never has a row.
type AccessType string

const (
	AccessViewer AccessType = "viewer"
	AccessEditor AccessType = "editor"
)

// Valid reports whether the access type is one of the two grantable levels.
func (a AccessType) Valid() bool {
	return a == AccessViewer || a == AccessEditor
}

type Permission struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	DocumentID string     `json:"document_id" db:"document_id"`
	AccessType AccessType `json:"access_type" db:"access_type"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
