// ===============================
// internal/services/user.go - Accounts and profiles
// ===============================

package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"luemtv/internal/models"
	"luemtv/internal/repositories"
)

const minPasswordLength = 6

type UserService struct {
	profiles ProfileStore
	auth     AuthProvider
	logger   zerolog.Logger
}

func NewUserService(profiles ProfileStore, auth AuthProvider, logger zerolog.Logger) *UserService {
	return &UserService{
		profiles: profiles,
		auth:     auth,
		logger:   logger.With().Str("component", "users").Logger(),
	}
}

// GetProfile retrieves the profile for a Firebase UID.
func (s *UserService) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	return s.profiles.GetProfile(ctx, uid)
}

// List is the admin user list, filtered by email substring.
func (s *UserService) List(ctx context.Context, q string) ([]models.Profile, error) {
	return s.profiles.ListProfiles(ctx, strings.TrimSpace(q))
}

// Create signs the account up with Firebase and stores a profile with the
// user role. Returns the refreshed list.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) ([]models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, invalid("email must contain @")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	uid, err := s.auth.SignUp(ctx, email, req.Password)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Firebase sign-up failed")
		return nil, upstream("firebase", err)
	}

	profile := &models.Profile{ID: uid, Email: email, Role: models.RoleUser}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		// Roll the account back so the email can be retried.
		if delErr := s.auth.DeleteUser(ctx, uid); delErr != nil {
			s.logger.Error().Err(delErr).Str("uid", uid).Msg("Failed to roll back Firebase user")
		}
		return nil, err
	}

	s.logger.Info().Str("uid", uid).Str("email", email).Msg("User created")
	return s.List(ctx, "")
}

// Update edits a profile's email or role. Role must be user or admin.
func (s *UserService) Update(ctx context.Context, uid string, req models.UpdateUserRequest) ([]models.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !strings.Contains(email, "@") {
			return nil, invalid("email must contain @")
		}
		profile.Email = email
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if !models.ValidRole(role) {
			return nil, invalid("role must be %s or %s", models.RoleUser, models.RoleAdmin)
		}
		profile.Role = role
	}

	if err := s.profiles.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Str("uid", uid).Str("role", profile.Role).Msg("User updated")
	return s.List(ctx, "")
}

// Delete removes the profile and the Firebase account.
func (s *UserService) Delete(ctx context.Context, uid string) ([]models.Profile, error) {
	if err := s.profiles.DeleteProfile(ctx, uid); err != nil {
		return nil, err
	}

	if err := s.auth.DeleteUser(ctx, uid); err != nil {
		s.logger.Error().Err(err).Str("uid", uid).Msg("Profile deleted but Firebase user remains")
		return nil, upstream("firebase", err)
	}

	s.logger.Info().Str("uid", uid).Msg("User deleted")
	return s.List(ctx, "")
}

// Sync creates the profile on first sign-in and returns it. created is
// true when a new row was written.
func (s *UserService) Sync(ctx context.Context, uid string) (profile *models.Profile, created bool, err error) {
	profile, err = s.profiles.GetProfile(ctx, uid)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	record, err := s.auth.GetUser(ctx, uid)
	if err != nil {
		return nil, false, upstream("firebase", err)
	}

	profile = &models.Profile{ID: uid, Role: models.RoleUser}
	if record.UserInfo != nil {
		profile.Email = record.Email
	}
	profile.Normalize()

	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			existing, getErr := s.profiles.GetProfile(ctx, uid)
			return existing, false, getErr
		}
		return nil, false, err
	}

	s.logger.Info().Str("uid", uid).Msg("Profile created on first sign-in")
	return profile, true, nil
}

// SignOut revokes every refresh token of uid.
func (s *UserService) SignOut(ctx context.Context, uid string) error {
	if err := s.auth.SignOut(ctx, uid); err != nil {
		return upstream("firebase", err)
	}
	return nil
}
