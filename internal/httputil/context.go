package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userIDKey   contextKey = "userID"
	userNameKey contextKey = "userName"
)

// WithUser adds the authenticated user's id and display name to the request
// context.
func WithUser(r *http.Request, userID, userName string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, userNameKey, userName)
	return r.WithContext(ctx)
}

// GetUserID retrieves the user id from context, empty string if not set
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// GetUserName retrieves the display name from context, empty string if not set
func GetUserName(r *http.Request) string {
	userName, _ := r.Context().Value(userNameKey).(string)
	return userName
}
