package handler

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/social-network-api/internal/model"
	"github.com/iliyamo/social-network-api/internal/repository"
)

func sampleUser() model.User {
	return model.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		IsActive:     true,
		AvatarImage:  sql.NullString{String: "abc.png", Valid: true},
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 2, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPublicProjectionOmitsPrivateFields(t *testing.T) {
	b, err := json.Marshal(publicUser(sampleUser(), "http://x"))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Contains(t, m, "id")
	assert.Contains(t, m, "username")
	assert.Contains(t, m, "avatar_url")
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "friends")
	assert.NotContains(t, m, "password_hash")
}

func TestPrivateProjection(t *testing.T) {
	friends := []model.User{{ID: 7}, {ID: 9}}
	resp := privateUser(sampleUser(), friends, "http://x")

	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, []uint64{7, 9}, resp.Friends)
	assert.Equal(t, "http://x/static/avatars/abc.png", resp.AvatarURL)

	// The hash must never appear in any serialized form.
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
}

func TestPageEnvelopeShape(t *testing.T) {
	resp := pageResp{
		Data: publicUsers([]model.User{sampleUser()}, "http://x"),
		Page: repository.NewPage(25, 1, 10),
	}
	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	for _, key := range []string{"data", "page", "per_page", "total_count", "total_pages", "has_next", "has_prev"} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, true, m["has_next"])
	assert.Equal(t, false, m["has_prev"])
}
