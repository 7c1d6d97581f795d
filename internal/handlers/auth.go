// ===============================
// internal/handlers/auth.go - Session endpoints
// ===============================

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
)

type Accounts interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	Sync(ctx context.Context, uid string) (*models.Profile, bool, error)
	SignOut(ctx context.Context, uid string) error
}

type AuthHandler struct {
	accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// SyncUser creates the profile on first sign-in: 201 when created, 200 otherwise.
func (h *AuthHandler) SyncUser(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	profile, created, err := h.accounts.Sync(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"user": profile, "created": created})
}

// GetCurrentUser returns the caller's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	profile, err := h.accounts.GetProfile(c.Request.Context(), sess.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile, "session": sess})
}

// SignOut revokes the caller's refresh tokens; the current ID token stops
// verifying on the next request.
func (h *AuthHandler) SignOut(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if err := h.accounts.SignOut(c.Request.Context(), sess.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
