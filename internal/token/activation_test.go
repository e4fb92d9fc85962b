package token

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationCodecRoundTrip(t *testing.T) {
	c := NewActivationCodec("app-secret")

	tok := c.Encode("bob@example.com")
	email, err := c.Decode(tok, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", email)
}

func TestActivationCodecFailures(t *testing.T) {
	c := NewActivationCodec("app-secret")

	// Build a token with a timestamp well in the past, signed correctly,
	// to exercise the age check independently of the signature check.
	oldPayload := base64.RawURLEncoding.EncodeToString([]byte("bob@example.com")) +
		"." + strconv.FormatInt(time.Now().UTC().Add(-time.Hour).Unix(), 10)
	oldToken := oldPayload + "." + c.sign(oldPayload)

	valid := c.Encode("bob@example.com")
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Map(func(r rune) rune {
		if r == 'A' {
			return 'B'
		}
		return 'A'
	}, parts[2])

	tests := []struct {
		name   string
		token  string
		maxAge time.Duration
	}{
		{name: "expired token", token: oldToken, maxAge: 30 * time.Minute},
		{name: "tampered signature", token: tampered, maxAge: 30 * time.Minute},
		{name: "malformed token", token: "nonsense", maxAge: 30 * time.Minute},
		{name: "wrong part count", token: "a.b", maxAge: 30 * time.Minute},
		{name: "non-numeric timestamp", token: parts[0] + ".xyz." + c.sign(parts[0]+".xyz"), maxAge: 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.token, tt.maxAge)
			assert.ErrorIs(t, err, ErrInvalidOrExpired)
		})
	}
}

func TestActivationCodecDomainSeparation(t *testing.T) {
	// A codec keyed from a different secret must reject the token, and a
	// token from the auth JWT service can never pass as an activation
	// token (different shape and key derivation).
	a := NewActivationCodec("secret-one")
	b := NewActivationCodec("secret-two")

	tok := a.Encode("bob@example.com")
	_, err := b.Decode(tok, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	s := NewService("secret-one", time.Minute, time.Hour, NewMemoryRevocationStore())
	issued, err := s.issue(1, TypeAccess, true, time.Minute)
	require.NoError(t, err)
	_, err = a.Decode(issued.Token, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}
