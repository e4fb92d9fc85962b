package model

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAvatarURL(t *testing.T) {
	base := "http://localhost:8080"

	t.Run("stored avatar resolves to its file", func(t *testing.T) {
		u := User{AvatarImage: sql.NullString{String: "abc.jpg", Valid: true}}
		assert.Equal(t, base+"/static/avatars/abc.jpg", u.AvatarURL(base))
	})

	t.Run("missing avatar resolves to the default asset", func(t *testing.T) {
		u := User{}
		assert.Equal(t, base+"/static/assets/default-avatar.jpg", u.AvatarURL(base))
	})

	t.Run("null-but-empty value also falls back", func(t *testing.T) {
		u := User{AvatarImage: sql.NullString{String: "", Valid: true}}
		assert.Equal(t, base+"/static/assets/default-avatar.jpg", u.AvatarURL(base))
	})
}
