// Package token implements the credential lifecycle: issuing signed
// access/refresh token pairs, refreshing access tokens, and revoking
// tokens by their unique identifier (jti). A revoked jti stays rejected
// for the remainder of the token's natural expiry window.
package token

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/social-network-api/internal/model"
)

const (
	// TypeAccess marks short-lived tokens presented on every request.
	TypeAccess = "access"
	// TypeRefresh marks long-lived tokens exchanged for new access tokens.
	TypeRefresh = "refresh"
)

// ErrInvalidToken is returned for malformed, forged, expired, revoked
// or wrong-type tokens. Callers cannot tell these apart on purpose.
var ErrInvalidToken = errors.New("invalid token")

// ErrNotActivated is returned when issuing a pair for an account that
// has not confirmed its email yet.
var ErrNotActivated = errors.New("user account is not activated yet")

// Claims is the payload carried by both token types. Fresh is set only
// on access tokens obtained directly from a password login; tokens
// minted through a refresh are never fresh.
type Claims struct {
	Type  string `json:"type"`
	Fresh bool   `json:"fresh,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user id.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Issued is a signed token together with its identifier and expiry.
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Pair bundles the access and refresh tokens returned by a login.
type Pair struct {
	Access  Issued
	Refresh Issued
}

// Service signs and validates HS256 JWTs and consults the revocation
// store on every validation.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    RevocationStore
}

func NewService(secret string, accessTTL, refreshTTL time.Duration, revoked RevocationStore) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
	}
}

func (s *Service) issue(userID uint64, typ string, fresh bool, ttl time.Duration) (Issued, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()
	claims := Claims{
		Type:  typ,
		Fresh: fresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, JTI: jti, ExpiresAt: now.Add(ttl)}, nil
}

// IssuePairFor returns a fresh access token and a refresh token for an
// activated user. Accounts that never confirmed their email cannot
// obtain a pair.
func (s *Service) IssuePairFor(u model.User) (Pair, error) {
	if !u.IsActive {
		return Pair{}, ErrNotActivated
	}
	access, err := s.issue(u.ID, TypeAccess, true, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.issue(u.ID, TypeRefresh, false, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Verify parses and validates a token of the wanted type, including a
// revocation check on its jti.
func (s *Service) Verify(ctx context.Context, raw, wantType string) (*Claims, error) {
	claims, err := s.parse(raw, true)
	if err != nil {
		return nil, err
	}
	if claims.Type != wantType {
		return nil, ErrInvalidToken
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh exchanges a valid refresh token for a new, non-fresh access
// token carrying a new jti. The refresh token itself stays usable until
// it expires or is revoked.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (Issued, error) {
	claims, err := s.Verify(ctx, refreshRaw, TypeRefresh)
	if err != nil {
		return Issued{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return Issued{}, err
	}
	return s.issue(userID, TypeAccess, false, s.accessTTL)
}

// Revoke adds the token's jti to the revocation set with a TTL covering
// the remainder of its expiry window. Revoking twice, or revoking an
// already expired token, is a no-op. The signature must still verify so
// arbitrary strings cannot grow the set.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	claims, err := s.parse(raw, false)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}

// IsRevoked is a pure lookup by jti.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked.IsRevoked(ctx, jti)
}

// parse verifies the signature and, unless checkExpiry is false,
// rejects expired tokens. Revocation of expired tokens must still be
// able to read the claims.
func (s *Service) parse(raw string, checkExpiry bool) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
