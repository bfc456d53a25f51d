package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jon4hz/vitrine/internal/docstore"
	"github.com/jon4hz/vitrine/internal/docstore/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthenticatorTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *mock.MockStore
	clock *fakeClock
	auth  *Authenticator
}

func (s *AuthenticatorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = mock.NewMockStore()
	s.clock = &fakeClock{t: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)}

	codec, err := NewTokenCodec([]byte("test-secret"), WithClock(s.clock.Now))
	s.Require().NoError(err)

	s.auth, err = New(s.store, codec, WithBcryptCost(bcrypt.MinCost))
	s.Require().NoError(err)
}

func (s *AuthenticatorTestSuite) TestNew_RequiresDependencies() {
	codec, err := NewTokenCodec([]byte("k"))
	s.Require().NoError(err)

	_, err = New(nil, codec)
	s.Error(err)
	_, err = New(s.store, nil)
	s.Error(err)
}

func (s *AuthenticatorTestSuite) TestBootstrap_CreatesDefaultAdmin() {
	created, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)
	s.True(created)

	cred, err := docstore.Load(s.ctx, s.store, docstore.KeyAdmin, Credential{})
	s.Require().NoError(err)
	s.Equal(DefaultUsername, cred.Username)
	s.NotEqual(DefaultPassword, cred.PasswordHash, "only the hash is stored")
	s.NoError(bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(DefaultPassword)))
}

func (s *AuthenticatorTestSuite) TestBootstrap_KeepsExistingAdmin() {
	s.Require().NoError(s.auth.SetPassword(s.ctx, "owner", "correct horse"))

	created, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(1, s.store.Puts[docstore.KeyAdmin])

	_, err = s.auth.Login(s.ctx, DefaultUsername, DefaultPassword)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthenticatorTestSuite) TestBootstrap_ReplacesEmptyDocument() {
	s.Require().NoError(s.store.Put(s.ctx, docstore.KeyAdmin, []byte(`{}`)))

	created, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)
	s.True(created)
}

func (s *AuthenticatorTestSuite) TestBootstrap_IsIdempotent() {
	_, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)
	created, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(1, s.store.Puts[docstore.KeyAdmin])
}

func (s *AuthenticatorTestSuite) TestLogin_DefaultCredential() {
	_, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)

	tok, err := s.auth.Login(s.ctx, "admin", "admin123")
	s.Require().NoError(err)
	s.Equal(TokenType, tok.Type)
	s.Equal(s.clock.t.Add(24*time.Hour), tok.ExpiresAt)

	id, err := s.auth.VerifyToken(tok.Value)
	s.Require().NoError(err)
	s.Equal("admin", id.Username)
}

func (s *AuthenticatorTestSuite) TestLogin_WrongPassword() {
	_, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)

	_, err = s.auth.Login(s.ctx, "admin", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthenticatorTestSuite) TestLogin_WrongUsername() {
	_, err := s.auth.Bootstrap(s.ctx)
	s.Require().NoError(err)

	_, err = s.auth.Login(s.ctx, "root", "admin123")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(s.ctx, "Admin", "admin123")
	s.ErrorIs(err, ErrInvalidCredentials, "usernames are case sensitive")
}

func (s *AuthenticatorTestSuite) TestLogin_NoCredential() {
	_, err := s.auth.Login(s.ctx, "admin", "admin123")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Zero(s.store.Puts[docstore.KeyAdmin], "login never bootstraps")
}

func (s *AuthenticatorTestSuite) TestLogin_StoreError() {
	boom := errors.New("read failed")
	s.store.GetError = boom

	_, err := s.auth.Login(s.ctx, "admin", "admin123")
	s.ErrorIs(err, boom)
	s.False(IsAuthError(err), "storage failures are not credential failures")
}

func (s *AuthenticatorTestSuite) TestLogin_TokenExpiresAfterOneDay() {
	s.Require().NoError(s.auth.SetPassword(s.ctx, "admin", "pw"))
	tok, err := s.auth.Login(s.ctx, "admin", "pw")
	s.Require().NoError(err)

	s.clock.t = s.clock.t.Add(24*time.Hour - time.Second)
	_, err = s.auth.VerifyToken(tok.Value)
	s.NoError(err)

	s.clock.t = s.clock.t.Add(time.Second)
	_, err = s.auth.VerifyToken(tok.Value)
	s.ErrorIs(err, ErrTokenExpired)
	s.True(IsAuthError(err))
}

func (s *AuthenticatorTestSuite) TestSetPassword() {
	s.Require().NoError(s.auth.SetPassword(s.ctx, " owner ", "n3w-passw0rd"))

	_, err := s.auth.Login(s.ctx, "owner", "n3w-passw0rd")
	s.NoError(err)

	s.Require().NoError(s.auth.SetPassword(s.ctx, "owner", "rotated"))
	_, err = s.auth.Login(s.ctx, "owner", "n3w-passw0rd")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.auth.Login(s.ctx, "owner", "rotated")
	s.NoError(err)
}

func (s *AuthenticatorTestSuite) TestSetPassword_Validation() {
	s.Error(s.auth.SetPassword(s.ctx, "", "pw"))
	s.Error(s.auth.SetPassword(s.ctx, "   ", "pw"))
	s.Error(s.auth.SetPassword(s.ctx, "admin", ""))
	s.Zero(s.store.Puts[docstore.KeyAdmin])
}

func (s *AuthenticatorTestSuite) TestIsAuthError() {
	s.True(IsAuthError(ErrInvalidCredentials))
	s.True(IsAuthError(ErrTokenExpired))
	s.True(IsAuthError(ErrTokenInvalid))
	s.False(IsAuthError(errors.New("other")))
	s.False(IsAuthError(nil))
}

func TestAuthenticatorTestSuite(t *testing.T) {
	suite.Run(t, new(AuthenticatorTestSuite))
}
