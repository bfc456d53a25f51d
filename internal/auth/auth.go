// Package auth verifies the single admin account and issues the bearer
// tokens that guard every write.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/docstore"
	"github.com/mergestat/timediff"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultUsername is the admin created on first start.
	DefaultUsername = "admin"
	// DefaultPassword is the password of the admin created on first start.
	DefaultPassword = "admin123"
)

// Credential is the stored admin identity.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

func (c Credential) empty() bool {
	return c.Username == "" || c.PasswordHash == ""
}

// Authenticator checks admin credentials against the document store.
type Authenticator struct {
	store      docstore.Store
	codec      *TokenCodec
	bcryptCost int
	// dummyHash keeps the work done for an unknown username equal to a wrong password.
	dummyHash []byte
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithBcryptCost overrides the bcrypt cost used for new hashes.
func WithBcryptCost(cost int) Option {
	return func(a *Authenticator) {
		a.bcryptCost = cost
	}
}

// New creates an authenticator storing its credential in store and signing with codec.
func New(store docstore.Store, codec *TokenCodec, opts ...Option) (*Authenticator, error) {
	if store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if codec == nil {
		return nil, fmt.Errorf("token codec is required")
	}

	a := &Authenticator{
		store:      store,
		codec:      codec,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(a)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-password"), a.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	a.dummyHash = dummy

	return a, nil
}

// Bootstrap creates the default admin if no credential is stored yet.
// It reports whether a credential was created.
func (a *Authenticator) Bootstrap(ctx context.Context) (bool, error) {
	cred, err := a.credential(ctx)
	if err != nil {
		return false, err
	}

	if !cred.empty() {
		if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(DefaultPassword)) == nil {
			log.Warn("admin still uses the default password, change it with `vitrine set-password`", "username", cred.Username)
		}
		return false, nil
	}

	if err := a.SetPassword(ctx, DefaultUsername, DefaultPassword); err != nil {
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}
	log.Warn("default admin user created with the well-known default password, change it before exposing this server",
		"username", DefaultUsername,
	)
	return true, nil
}

// Login verifies username and password and issues an access token.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Token, error) {
	cred, err := a.credential(ctx)
	if err != nil {
		return Token{}, err
	}

	if cred.empty() || cred.Username != username {
		// burn the same time as a real comparison
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		log.Debug("login rejected", "reason", "unknown user", "username", username)
		return Token{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		log.Debug("login rejected", "reason", "password mismatch", "username", username)
		return Token{}, ErrInvalidCredentials
	}

	token, err := a.codec.Issue(username)
	if err != nil {
		return Token{}, err
	}
	log.Info("admin logged in", "username", username, "expires", timediff.TimeDiff(token.ExpiresAt))
	return token, nil
}

// VerifyToken validates a bearer token and returns the identity it was issued to.
func (a *Authenticator) VerifyToken(token string) (Identity, error) {
	return a.codec.Verify(token)
}

// SetPassword replaces the stored credential with username and a fresh hash of password.
func (a *Authenticator) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	cred := Credential{Username: username, PasswordHash: string(hash)}
	if err := docstore.Save(ctx, a.store, docstore.KeyAdmin, cred); err != nil {
		return err
	}
	return nil
}

func (a *Authenticator) credential(ctx context.Context) (Credential, error) {
	cred, err := docstore.Load(ctx, a.store, docstore.KeyAdmin, Credential{})
	if err != nil {
		return Credential{}, fmt.Errorf("failed to load admin credential: %w", err)
	}
	return cred, nil
}

// IsAuthError reports whether err should be answered with 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid)
}
