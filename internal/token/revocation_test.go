package token

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore()

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		revoked, err := s.IsRevoked(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked jti stays revoked until its window passes", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, "jti-1", time.Hour))
		revoked, err := s.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("double revoke is a no-op", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, "jti-1", time.Hour))
		revoked, err := s.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("entry for an expired token becomes inert", func(t *testing.T) {
		require.NoError(t, s.Revoke(ctx, "jti-2", -time.Second))
		revoked, err := s.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestMemoryRevocationStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		jti := fmt.Sprintf("jti-%d", i)
		go func() {
			defer wg.Done()
			_ = s.Revoke(ctx, jti, time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.IsRevoked(ctx, jti)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		revoked, err := s.IsRevoked(ctx, fmt.Sprintf("jti-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}
