// Package user handles accounts: registration, login, token refresh,
// profile, and shipping addresses.
package user

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/auth"
	"github.com/example/storefront-api/internal/authz"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store"
)

type Service struct {
	gateway store.Gateway
	tokens  *auth.JWTService
}

func NewService(gateway store.Gateway, tokens *auth.JWTService) *Service {
	return &Service{gateway: gateway, tokens: tokens}
}

// TokenPair is what login and refresh hand back to the transport layer.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Register creates a USER account. Email uniqueness is enforced by the
// database; a duplicate comes back as a conflict.
func (s *Service) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var details []apperr.FieldError
	if email == "" || !strings.Contains(email, "@") {
		details = append(details, apperr.FieldError{Path: "email", Message: "must be a valid email address"})
	}
	if strings.TrimSpace(name) == "" {
		details = append(details, apperr.FieldError{Path: "name", Message: "is required"})
	}
	if len(details) > 0 {
		return nil, apperr.Invalid("invalid registration", details...)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, apperr.Invalid("invalid registration",
				apperr.FieldError{Path: "password", Message: "must be at least 8 characters"})
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         string(authz.RoleUser),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.gateway.InsertUser(ctx, u); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "email already registered")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create user", err)
	}

	log.Printf("[User] registered %s", email)
	return u, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.gateway.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperr.New(apperr.Authentication, "invalid email or password")
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	if !u.IsActive {
		return nil, nil, apperr.New(apperr.Authentication, "account is disabled")
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, nil, apperr.New(apperr.Authentication, "invalid email or password")
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.User, *TokenPair, error) {
	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Authentication, "invalid refresh token", err)
	}

	u, err := s.gateway.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperr.New(apperr.Authentication, "invalid refresh token")
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	if !u.IsActive {
		return nil, nil, apperr.New(apperr.Authentication, "account is disabled")
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *Service) issueTokens(u *model.User) (*TokenPair, error) {
	access, accessExp, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.gateway.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	return u, nil
}

// UpdateProfile changes the display name.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string) (*model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Invalid("invalid profile",
			apperr.FieldError{Path: "name", Message: "is required"})
	}
	if err := s.gateway.UpdateUserProfile(ctx, userID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to update profile", err)
	}
	return s.Get(ctx, userID)
}

// ChangePassword verifies the current password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(current, u.PasswordHash) {
		return apperr.New(apperr.Authentication, "current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return apperr.Invalid("invalid password",
				apperr.FieldError{Path: "password", Message: "must be at least 8 characters"})
		}
		return apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}
	if err := s.gateway.UpdateUserPassword(ctx, userID, hash); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to change password", err)
	}
	return nil
}

// AddressInput is the payload for creating or updating an address.
type AddressInput struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

func (in AddressInput) validate() error {
	var details []apperr.FieldError
	for path, value := range map[string]string{
		"line1":       in.Line1,
		"city":        in.City,
		"postal_code": in.PostalCode,
		"country":     in.Country,
	} {
		if strings.TrimSpace(value) == "" {
			details = append(details, apperr.FieldError{Path: path, Message: "is required"})
		}
	}
	if len(details) > 0 {
		return apperr.Invalid("invalid address", details...)
	}
	return nil
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]*model.Address, error) {
	addresses, err := s.gateway.AddressesByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list addresses", err)
	}
	return addresses, nil
}

func (s *Service) AddAddress(ctx context.Context, userID string, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &model.Address{
		ID:         uuid.NewString(),
		UserID:     userID,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		IsDefault:  in.IsDefault,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.gateway.InsertAddress(ctx, a); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to add address", err)
	}
	return a, nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	a.Line1 = in.Line1
	a.Line2 = in.Line2
	a.City = in.City
	a.State = in.State
	a.PostalCode = in.PostalCode
	a.Country = in.Country
	a.IsDefault = in.IsDefault
	if err := s.gateway.UpdateAddress(ctx, a); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update address", err)
	}
	return a, nil
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.gateway.DeleteAddress(ctx, addressID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete address", err)
	}
	return nil
}

func (s *Service) ownedAddress(ctx context.Context, userID, addressID string) (*model.Address, error) {
	a, err := s.gateway.AddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "address not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load address", err)
	}
	if a.UserID != userID {
		return nil, apperr.New(apperr.Authorization, "address belongs to another user")
	}
	return a, nil
}
