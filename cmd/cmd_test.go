package cmd

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/jon4hz/vitrine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	var out bytes.Buffer
	generateSecretCmd.SetOut(&out)

	require.NoError(t, generateSecret(generateSecretCmd, nil))

	secret := strings.TrimSpace(out.String())
	raw, err := hex.DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, raw, auth.SecretSize)
}

func TestNewTokenCodec(t *testing.T) {
	cfg := &config.Config{SecretKey: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour}

	first, err := newTokenCodec(cfg, false)
	require.NoError(t, err)
	second, err := newTokenCodec(cfg, false)
	require.NoError(t, err)

	token, err := first.Issue("admin")
	require.NoError(t, err)
	identity, err := second.Verify(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 2*time.Second)
}

func TestNewTokenCodec_RandomSecret(t *testing.T) {
	cfg := &config.Config{TokenTTL: time.Hour}

	first, err := newTokenCodec(cfg, false)
	require.NoError(t, err)
	second, err := newTokenCodec(cfg, false)
	require.NoError(t, err)

	token, err := first.Issue("admin")
	require.NoError(t, err)
	_, err = second.Verify(token.Value)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
