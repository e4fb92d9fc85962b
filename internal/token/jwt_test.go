package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/social-network-api/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService("test-secret", 15*time.Minute, 24*time.Hour, NewMemoryRevocationStore())
}

func activeUser(id uint64) model.User {
	return model.User{ID: id, Username: "alice", Email: "alice@example.com", IsActive: true}
}

func TestServiceIssuePairFor(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	t.Run("inactive account cannot obtain a pair", func(t *testing.T) {
		u := activeUser(1)
		u.IsActive = false
		_, err := s.IssuePairFor(u)
		assert.ErrorIs(t, err, ErrNotActivated)
	})

	t.Run("pair carries distinct identifiers and types", func(t *testing.T) {
		pair, err := s.IssuePairFor(activeUser(1))
		require.NoError(t, err)
		assert.NotEqual(t, pair.Access.JTI, pair.Refresh.JTI)

		access, err := s.Verify(ctx, pair.Access.Token, TypeAccess)
		require.NoError(t, err)
		assert.True(t, access.Fresh)
		uid, err := access.UserID()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), uid)

		refresh, err := s.Verify(ctx, pair.Refresh.Token, TypeRefresh)
		require.NoError(t, err)
		assert.False(t, refresh.Fresh)
	})

	t.Run("access token is rejected where a refresh is expected", func(t *testing.T) {
		pair, err := s.IssuePairFor(activeUser(2))
		require.NoError(t, err)
		_, err = s.Verify(ctx, pair.Access.Token, TypeRefresh)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestServiceRefresh(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	pair, err := s.IssuePairFor(activeUser(7))
	require.NoError(t, err)

	t.Run("refresh returns a new non-fresh access token", func(t *testing.T) {
		access, err := s.Refresh(ctx, pair.Refresh.Token)
		require.NoError(t, err)
		assert.NotEqual(t, pair.Access.JTI, access.JTI)

		claims, err := s.Verify(ctx, access.Token, TypeAccess)
		require.NoError(t, err)
		assert.False(t, claims.Fresh)
		uid, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, uint64(7), uid)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := s.Refresh(ctx, pair.Access.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, pair.Refresh.Token))
		_, err := s.Refresh(ctx, pair.Refresh.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		_, err := s.Refresh(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := NewService("other-secret", time.Minute, time.Hour, NewMemoryRevocationStore())
		forged, err := other.IssuePairFor(activeUser(7))
		require.NoError(t, err)
		_, err = s.Refresh(ctx, forged.Refresh.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestServiceRevoke(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	pair, err := s.IssuePairFor(activeUser(3))
	require.NoError(t, err)

	t.Run("revoked access token fails verification", func(t *testing.T) {
		_, err := s.Verify(ctx, pair.Access.Token, TypeAccess)
		require.NoError(t, err)

		require.NoError(t, s.Revoke(ctx, pair.Access.Token))

		_, err = s.Verify(ctx, pair.Access.Token, TypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)

		revoked, err := s.IsRevoked(ctx, pair.Access.JTI)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, pair.Access.Token))
		revoked, err := s.IsRevoked(ctx, pair.Access.JTI)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("revoking an expired token is a no-op", func(t *testing.T) {
		short := NewService("test-secret", -time.Minute, -time.Minute, NewMemoryRevocationStore())
		expired, err := short.issue(3, TypeAccess, true, -time.Minute)
		require.NoError(t, err)

		require.NoError(t, short.Revoke(ctx, expired.Token))
		revoked, err := short.IsRevoked(ctx, expired.JTI)
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("garbage cannot grow the revocation set", func(t *testing.T) {
		assert.ErrorIs(t, s.Revoke(ctx, "garbage"), ErrInvalidToken)
	})
}

func TestServiceVerifyExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	expired, err := s.issue(9, TypeAccess, true, -time.Minute)
	require.NoError(t, err)

	_, err = s.Verify(ctx, expired.Token, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
