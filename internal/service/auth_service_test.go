package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"utilityapi/internal/auth"
	apperrors "utilityapi/internal/errors"
	"utilityapi/internal/logger"
	"utilityapi/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockSSOProvider is a mock implementation of SSOProvider.
type MockSSOProvider struct {
	mock.Mock
}

func (m *MockSSOProvider) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockSSOProvider) Exchange(ctx context.Context, code string) (*auth.GoogleUser, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.GoogleUser), args.Error(1)
}

// MockStateStore is a mock implementation of auth.StateStoreInterface.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Issue(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

type authServiceFixture struct {
	repo      *MockUserRepository
	provider  *MockSSOProvider
	states    *MockStateStore
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	service   AuthService
}

func newAuthServiceFixture(t *testing.T) *authServiceFixture {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-0123456789abcdef", "HS256", 30*time.Minute)
	require.NoError(t, err)

	f := &authServiceFixture{
		repo:      new(MockUserRepository),
		provider:  new(MockSSOProvider),
		states:    new(MockStateStore),
		passwords: auth.NewPasswordService(),
		tokens:    tokens,
	}
	f.service = NewAuthService(f.repo, f.passwords, tokens, f.provider, f.states, logger.Nop())
	return f
}

func TestAuthService_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := f.service.Register(context.Background(), "Test@Example.com", "pw123456")
		require.NoError(t, err)

		assert.Equal(t, "test@example.com", user.Email, "email must be normalized")
		assert.Equal(t, model.AuthMethodBasic, user.AuthMethod)
		assert.True(t, user.IsActive)
		require.NotNil(t, user.PasswordHash)
		assert.True(t, f.passwords.Verify("pw123456", *user.PasswordHash))
		f.repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		user, err := f.service.Register(context.Background(), "existing@example.com", "pw123456")
		assert.ErrorIs(t, err, apperrors.ErrEmailRegistered)
		assert.Nil(t, user)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashOf := func(t *testing.T, f *authServiceFixture, password string) *string {
		t.Helper()
		hash, err := f.passwords.Hash(password)
		require.NoError(t, err)
		return &hash
	}

	t.Run("successful login issues a valid token", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
			Email:        "user@example.com",
			PasswordHash: hashOf(t, f, "pw123456"),
			IsActive:     true,
			AuthMethod:   model.AuthMethodBasic,
		}, nil)

		token, err := f.service.Login(context.Background(), "User@Example.COM", "pw123456")
		require.NoError(t, err)

		subject, err := f.tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
			Email:        "user@example.com",
			PasswordHash: hashOf(t, f, "pw123456"),
			IsActive:     true,
			AuthMethod:   model.AuthMethodBasic,
		}, nil)

		_, err := f.service.Login(context.Background(), "user@example.com", "wrong-password")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := f.service.Login(context.Background(), "ghost@example.com", "pw123456")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("store outage is not a credential rejection", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "user@example.com").Return(nil, assert.AnError)

		_, err := f.service.Login(context.Background(), "user@example.com", "pw123456")
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.Equal(t, http.StatusInternalServerError, apperrors.MapErrorToHTTP(err).StatusCode)
	})

	t.Run("unknown email still costs a hash derivation", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		start := time.Now()
		_, err := f.service.Login(context.Background(), "ghost@example.com", "pw123456")
		elapsed := time.Since(start)

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		// An early return without the argon2 comparison finishes in
		// microseconds; the derivation itself takes far longer.
		assert.Greater(t, elapsed, 10*time.Millisecond)
	})

	t.Run("sso account has no password", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.repo.On("FindByEmail", mock.Anything, "sso@example.com").Return(&model.User{
			Email:      "sso@example.com",
			IsActive:   true,
			AuthMethod: model.AuthMethodSSO,
		}, nil)

		_, err := f.service.Login(context.Background(), "sso@example.com", "anything")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_SSOLoginURL(t *testing.T) {
	f := newAuthServiceFixture(t)
	f.states.On("Issue", mock.Anything).Return("nonce-1", nil)
	f.provider.On("AuthURL", "nonce-1").Return("https://accounts.google.com/o/oauth2/auth?state=nonce-1")

	url, err := f.service.SSOLoginURL(context.Background())
	require.NoError(t, err)
	assert.Contains(t, url, "state=nonce-1")
}

func TestAuthService_SSOCallback(t *testing.T) {
	t.Run("first sight creates an SSO user and issues a token", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.states.On("Consume", mock.Anything, "nonce-1").Return(true, nil)
		f.provider.On("Exchange", mock.Anything, "code-1").Return(&auth.GoogleUser{Email: "New@Example.com"}, nil)
		f.repo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)

		var created *model.User
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).Return(nil)

		token, err := f.service.SSOCallback(context.Background(), "nonce-1", "code-1")
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "new@example.com", created.Email)
		assert.Equal(t, model.AuthMethodSSO, created.AuthMethod)
		assert.Nil(t, created.PasswordHash)
		assert.True(t, created.IsActive)

		subject, err := f.tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", subject)
	})

	t.Run("returning SSO user is reused", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.states.On("Consume", mock.Anything, "nonce-1").Return(true, nil)
		f.provider.On("Exchange", mock.Anything, "code-1").Return(&auth.GoogleUser{Email: "sso@example.com"}, nil)
		f.repo.On("FindByEmail", mock.Anything, "sso@example.com").Return(&model.User{
			Email:      "sso@example.com",
			IsActive:   true,
			AuthMethod: model.AuthMethodSSO,
		}, nil)

		token, err := f.service.SSOCallback(context.Background(), "nonce-1", "code-1")
		require.NoError(t, err)

		subject, err := f.tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "sso@example.com", subject)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("existing password account is rejected", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.states.On("Consume", mock.Anything, "nonce-1").Return(true, nil)
		f.provider.On("Exchange", mock.Anything, "code-1").Return(&auth.GoogleUser{Email: "basic@example.com"}, nil)
		hash := "some-hash"
		f.repo.On("FindByEmail", mock.Anything, "basic@example.com").Return(&model.User{
			Email:        "basic@example.com",
			PasswordHash: &hash,
			IsActive:     true,
			AuthMethod:   model.AuthMethodBasic,
		}, nil)

		_, err := f.service.SSOCallback(context.Background(), "nonce-1", "code-1")
		assert.ErrorIs(t, err, apperrors.ErrSSOFailed)
	})

	t.Run("unknown or replayed state", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.states.On("Consume", mock.Anything, "stale").Return(false, nil)

		_, err := f.service.SSOCallback(context.Background(), "stale", "code-1")
		assert.ErrorIs(t, err, apperrors.ErrSSOFailed)
		f.provider.AssertNotCalled(t, "Exchange", mock.Anything, mock.Anything)
	})

	t.Run("provider exchange failure", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.states.On("Consume", mock.Anything, "nonce-1").Return(true, nil)
		f.provider.On("Exchange", mock.Anything, "bad-code").Return(nil, auth.ErrProviderExchange)

		_, err := f.service.SSOCallback(context.Background(), "nonce-1", "bad-code")
		assert.ErrorIs(t, err, apperrors.ErrSSOFailed)
	})

	t.Run("lost concurrent first-login race reuses the winner's row", func(t *testing.T) {
		f := newAuthServiceFixture(t)
		f.states.On("Consume", mock.Anything, "nonce-1").Return(true, nil)
		f.provider.On("Exchange", mock.Anything, "code-1").Return(&auth.GoogleUser{Email: "race@example.com"}, nil)
		f.repo.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
		f.repo.On("FindByEmail", mock.Anything, "race@example.com").Return(&model.User{
			Email:      "race@example.com",
			IsActive:   true,
			AuthMethod: model.AuthMethodSSO,
		}, nil).Once()

		token, err := f.service.SSOCallback(context.Background(), "nonce-1", "code-1")
		require.NoError(t, err)

		subject, err := f.tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "race@example.com", subject)
	})
}
