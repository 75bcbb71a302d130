package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the JWT claims issued by the external auth service. Subject
// is the user id; Name and Email are carried for presence display so the
// realtime layer does not need a user lookup per connection.
type AccessClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// UserID returns the authenticated user's id (the subject claim).
func (c *AccessClaims) UserID() string {
	return c.Subject
}
