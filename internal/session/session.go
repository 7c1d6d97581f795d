// ===============================
// internal/session/session.go - Request session context
// ===============================

// Package session carries the authenticated caller through a request.
package session

import (
	"context"

	"luemtv/internal/models"
)

// Session is the verified identity of the caller for one request.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type contextKey struct{}

// With returns ctx carrying s.
func With(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// From returns the session attached to ctx, if any.
func From(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok && s.UserID != ""
}
