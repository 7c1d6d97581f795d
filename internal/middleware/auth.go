// ===============================
// internal/middleware/auth.go - Firebase Auth Middleware
// ===============================

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"luemtv/internal/models"
	"luemtv/internal/repositories"
	"luemtv/internal/session"
)

// TokenVerifier checks a Firebase ID token.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// ProfileLookup resolves the role stored for a user.
type ProfileLookup interface {
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
}

// FirebaseAuth verifies the bearer token and attaches a session.Session to
// the request context. Users without a profile row yet get the user role
// until POST /auth/sync creates it.
func FirebaseAuth(verifier TokenVerifier, profiles ProfileLookup, logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "auth").Logger()

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		firebaseToken, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sess := session.Session{UserID: firebaseToken.UID, Role: models.RoleUser}
		if email, ok := firebaseToken.Claims["email"].(string); ok {
			sess.Email = strings.ToLower(email)
		}

		profile, err := profiles.GetProfile(c.Request.Context(), firebaseToken.UID)
		switch {
		case err == nil:
			sess.Role = profile.Role
			if profile.Email != "" {
				sess.Email = profile.Email
			}
		case errors.Is(err, repositories.ErrNotFound):
		default:
			logger.Error().Err(err).Str("uid", firebaseToken.UID).Msg("Profile lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Could not load profile"})
			return
		}

		c.Request = c.Request.WithContext(session.With(c.Request.Context(), sess))
		c.Set("userID", sess.UserID)
		c.Next()
	}
}

// AdminOnly requires an admin session. Must run after FirebaseAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.From(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
