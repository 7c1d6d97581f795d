// ===============================
// internal/services/firebase.go - Centralized Firebase Service
// ===============================

package services

import (
	"context"
	"fmt"

	"luemtv/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseService struct {
	app        *firebase.App
	authClient *auth.Client
}

// NewFirebaseService creates and initializes a new Firebase service
func NewFirebaseService(ctx context.Context, cfg *config.Config) (*FirebaseService, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.FirebaseProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	return &FirebaseService{
		app:        firebaseApp,
		authClient: authClient,
	}, nil
}

// VerifyIDToken verifies a Firebase ID token. Tokens issued before the
// user's last sign-out are rejected.
func (fs *FirebaseService) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return fs.authClient.VerifyIDTokenAndCheckRevoked(ctx, idToken)
}

// GetUser gets a Firebase user by UID
func (fs *FirebaseService) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	return fs.authClient.GetUser(ctx, uid)
}

// SignUp creates an email/password account and returns its UID.
func (fs *FirebaseService) SignUp(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password)

	user, err := fs.authClient.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}
	return user.UID, nil
}

// SignOut revokes the user's refresh tokens, ending every session.
func (fs *FirebaseService) SignOut(ctx context.Context, uid string) error {
	return fs.authClient.RevokeRefreshTokens(ctx, uid)
}

// DeleteUser removes the Firebase account. A missing account is not an error.
func (fs *FirebaseService) DeleteUser(ctx context.Context, uid string) error {
	err := fs.authClient.DeleteUser(ctx, uid)
	if err != nil && auth.IsUserNotFound(err) {
		return nil
	}
	return err
}
