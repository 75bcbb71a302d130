package models

import "time"

// Request is a pending share invitation. Only a document's creator may send
// one; accepting converts it into a Permission and deletes it, declining just
// deletes it. DocumentTitle is denormalized for inbox display.
type Request struct {
	ID            string     `json:"id" db:"id"`
	DocumentID    string     `json:"document_id" db:"document_id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Permission    AccessType `json:"permission" db:"permission"`
	DocumentTitle string     `json:"document_title" db:"document_title"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
