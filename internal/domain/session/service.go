// Package session holds the fabricated user identity and its snapshot. There
// is no credential verification anywhere: login invents a user on first
// sight of an email and hands back a signed session token for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medmatch/medmatch/internal/platform/auth"
)

// defaultName matches the original client's stand-in identity.
const defaultName = "Alex Jones"

// ErrInvalidLogin marks a login request without a usable email.
var ErrInvalidLogin = errors.New("email is required")

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Login returns the existing user for an email or fabricates a new one, and
// issues a session token. Logging in twice with the same email yields the
// same user id.
func (s *Service) Login(ctx context.Context, name, email string) (*User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, "", ErrInvalidLogin
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		name = strings.TrimSpace(name)
		if name == "" {
			name = defaultName
		}
		user = &User{
			ID:       uuid.New(),
			Name:     name,
			Email:    email,
			Bookings: []Booking{},
		}
		if err := s.repo.Save(ctx, user); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user.ID.String(), user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return user, token, nil
}

// Logout discards the user snapshot, mirroring the original client clearing
// its stored state.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID)
}

// Profile returns the user snapshot.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.Get(ctx, userID)
}

// UpdateAgeGroup replaces the stored age group and saves the snapshot.
func (s *Service) UpdateAgeGroup(ctx context.Context, userID uuid.UUID, ageGroup string) (*User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AgeGroup = ageGroup
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
