package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidOrExpired is the single failure mode of activation token
// decoding. Tampered and expired tokens are deliberately
// indistinguishable to the caller.
var ErrInvalidOrExpired = errors.New("invalid token or token expired")

// ActivationCodec produces and verifies the time-limited tokens mailed
// to new users to prove mailbox control. The signing key is derived
// from the application secret with a fixed salt, so an activation token
// can never be replayed as an auth token and vice versa.
type ActivationCodec struct {
	key []byte
}

const activationSalt = "activate"

func NewActivationCodec(secret string) *ActivationCodec {
	sum := sha256.Sum256([]byte(secret + ":" + activationSalt))
	return &ActivationCodec{key: sum[:]}
}

// Encode embeds the email and the current timestamp and signs both.
// Token shape: base64url(email).unixSeconds.base64url(signature).
func (c *ActivationCodec) Encode(email string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(email)) +
		"." + strconv.FormatInt(time.Now().UTC().Unix(), 10)
	return payload + "." + c.sign(payload)
}

// Decode verifies the signature and the token age against maxAge and
// returns the embedded email. Every failure collapses into
// ErrInvalidOrExpired.
func (c *ActivationCodec) Decode(tok string, maxAge time.Duration) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", ErrInvalidOrExpired
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(c.sign(payload)), []byte(parts[2])) {
		return "", ErrInvalidOrExpired
	}
	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidOrExpired
	}
	age := time.Since(time.Unix(issued, 0))
	if age < 0 || age > maxAge {
		return "", ErrInvalidOrExpired
	}
	email, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidOrExpired
	}
	return string(email), nil
}

func (c *ActivationCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
