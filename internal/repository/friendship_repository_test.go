package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendshipAddSelf(t *testing.T) {
	// The self-friendship guard fires before any transaction is opened,
	// so a repo without a live connection must still reject the call.
	r := &FriendshipRepo{}
	err := r.Add(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfFriendship)
}
