package model

import (
	"database/sql"
	"time"
)

// User represents an application user record as stored in the `users`
// table. The json tags are omitted here because these structs are
// primarily used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID           - primary key identifier of the user.
//  Username     - unique display name.
//  Email        - unique email address.
//  PasswordHash - salted password hash, never the raw secret.
//  IsActive     - whether the account has been activated by email.
//  AvatarImage  - stored avatar filename (null when never uploaded).
//  CreatedAt    - timestamp of creation.
//  UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64         // users.id
	Username     string         // users.username
	Email        string         // users.email
	PasswordHash string         // users.password_hash
	IsActive     bool           // users.is_active
	AvatarImage  sql.NullString // users.avatar_image (nullable)
	CreatedAt    time.Time      // users.created_at
	UpdatedAt    time.Time      // users.updated_at
}

// AvatarURL resolves the externally visible avatar location. Users who
// never uploaded an avatar resolve to the bundled default image.
func (u User) AvatarURL(baseURL string) string {
	if u.AvatarImage.Valid && u.AvatarImage.String != "" {
		return baseURL + "/static/avatars/" + u.AvatarImage.String
	}
	return baseURL + "/static/assets/default-avatar.jpg"
}

// Friendship models a single directed row in the `friendship` table.
// The relation is symmetric: every edge is stored as two directed rows
// (A→B and B→A) written inside one transaction, so a partially written
// edge is never visible to readers.
//
// Fields:
//  UserID    - owning side of the directed row.
//  FriendID  - the befriended user.
//  CreatedAt - when the edge was created.
type Friendship struct {
	UserID    uint64    // friendship.user_id
	FriendID  uint64    // friendship.friend_id
	CreatedAt time.Time // friendship.created_at
}
