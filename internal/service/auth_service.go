package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"utilityapi/internal/auth"
	apperrors "utilityapi/internal/errors"
	"utilityapi/internal/logger"
	"utilityapi/internal/model"
	"utilityapi/internal/repository"
)

// SSOProvider abstracts the external identity provider exchange.
type SSOProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleUser, error)
}

// AuthService handles registration, password login and SSO resolution. Both
// login paths converge on the same token issuance.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	SSOLoginURL(ctx context.Context) (string, error)
	SSOCallback(ctx context.Context, state, code string) (string, error)
}

type authService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	provider  SSOProvider
	states    auth.StateStoreInterface
	log       *logger.Logger

	// fallbackHash is compared against when no stored hash exists, so a
	// login attempt costs one argon2 derivation whether or not the email
	// resolves to an account.
	fallbackHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	provider SSOProvider,
	states auth.StateStoreInterface,
	log *logger.Logger,
) AuthService {
	fallbackHash, err := passwords.Hash(uuid.NewString())
	if err != nil {
		log.Error().Err(err).Msg("derive fallback hash")
	}
	return &authService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		provider:  provider,
		states:    states,
		log:       log,

		fallbackHash: fallbackHash,
	}
}

// NormalizeEmail lowercases and trims an email so one mailbox maps to one
// account regardless of how the caller cased it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a Basic-auth user with a hashed password. Email
// uniqueness is enforced only by the store's unique index, so concurrent
// registrations of the same email cannot both succeed.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: &hash,
		IsActive:     true,
		AuthMethod:   model.AuthMethodBasic,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown users,
// SSO-only accounts and wrong passwords all collapse into
// ErrInvalidCredentials; a credential-store failure is not a rejection and
// surfaces as an internal error instead.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error().Err(err).Msg("credential store lookup failed")
		return "", fmt.Errorf("load user: %w", err)
	}

	// Verify against the fallback hash when there is nothing stored, so the
	// not-found and no-password paths take as long as a real comparison.
	hash := s.fallbackHash
	if err == nil && user.PasswordHash != nil {
		hash = *user.PasswordHash
	}
	if !s.passwords.Verify(password, hash) || err != nil || user.PasswordHash == nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// SSOLoginURL issues a single-use CSRF state nonce and returns the provider
// authorization URL to redirect the client to.
func (s *authService) SSOLoginURL(ctx context.Context) (string, error) {
	state, err := s.states.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("issue sso state: %w", err)
	}
	return s.provider.AuthURL(state), nil
}

// SSOCallback finishes the authorization-code flow: verify and consume the
// state nonce, exchange the code for the provider identity, resolve the
// local account, and issue a token through the same path as password login.
//
// A first-seen email creates a new SSO user with no password hash. An email
// that already exists as a Basic account is rejected: logging a password
// account in through the provider would be a silent account takeover.
func (s *authService) SSOCallback(ctx context.Context, state, code string) (string, error) {
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		s.log.Error().Err(err).Msg("sso state lookup failed")
		return "", apperrors.ErrSSOFailed
	}
	if !ok {
		s.log.Warn().Msg("sso callback with missing or replayed state")
		return "", apperrors.ErrSSOFailed
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.log.Error().Err(err).Msg("sso exchange failed")
		return "", apperrors.ErrSSOFailed
	}

	email := NormalizeEmail(identity.Email)

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.AuthMethod != model.AuthMethodSSO {
			s.log.Warn().Str("email", email).Msg("sso callback for existing password account rejected")
			return "", apperrors.ErrSSOFailed
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{
			ID:         uuid.New(),
			Email:      email,
			IsActive:   true,
			AuthMethod: model.AuthMethodSSO,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return "", fmt.Errorf("create sso user: %w", err)
			}
			// Lost a concurrent first-login race; the row exists now.
			user, err = s.users.FindByEmail(ctx, email)
			if err != nil {
				return "", fmt.Errorf("load sso user: %w", err)
			}
			if user.AuthMethod != model.AuthMethodSSO {
				s.log.Warn().Str("email", email).Msg("sso callback for existing password account rejected")
				return "", apperrors.ErrSSOFailed
			}
		}
	default:
		return "", fmt.Errorf("load user: %w", err)
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
