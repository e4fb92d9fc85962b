package handler

import (
	"time"

	"github.com/iliyamo/social-network-api/internal/model"
	"github.com/iliyamo/social-network-api/internal/repository"
)

// userResp is the private projection, returned only to the subject user.
type userResp struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	IsActive  bool      `json:"is_active"`
	Friends   []uint64  `json:"friends,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// userPublicResp omits email and friends for callers other than the
// subject.
type userPublicResp struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func privateUser(u model.User, friends []model.User, baseURL string) userResp {
	ids := make([]uint64, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.ID)
	}
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL(baseURL),
		IsActive:  u.IsActive,
		Friends:   ids,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func publicUser(u model.User, baseURL string) userPublicResp {
	return userPublicResp{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL(baseURL)}
}

func publicUsers(us []model.User, baseURL string) []userPublicResp {
	out := make([]userPublicResp, 0, len(us))
	for _, u := range us {
		out = append(out, publicUser(u, baseURL))
	}
	return out
}

// pageResp is the pagination envelope shared by all listing endpoints.
type pageResp struct {
	Data any `json:"data"`
	repository.Page
}
