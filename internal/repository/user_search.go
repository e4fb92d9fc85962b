package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/social-network-api/internal/model"
)

// SearchQuery defines keyword filter, sort and pagination for listing
// users. The same query shape drives both the global user listing and
// a single user's friend listing; only the base collection differs.
type SearchQuery struct {
	Q       string
	Page    int
	PerPage int
	Sort    string
	Order   string
}

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// resolveSort restricts the sort field to the allow-list; anything else
// silently falls back to created_at. Only resolved values are ever
// interpolated into SQL.
func resolveSort(sort string) string {
	switch sort {
	case "created_at", "updated_at":
		return sort
	}
	return "created_at"
}

// resolveOrder restricts the direction to asc/desc, falling back to desc.
func resolveOrder(order string) string {
	switch strings.ToLower(order) {
	case "asc":
		return "ASC"
	case "desc":
		return "DESC"
	}
	return "DESC"
}

// normalize clamps pagination inputs and resolves sort/order.
func (q SearchQuery) normalize() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	q.Sort = resolveSort(q.Sort)
	q.Order = resolveOrder(q.Order)
	return q
}

func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

// SearchAll returns one page of all users whose username contains the
// keyword, case-insensitively. An empty keyword matches everyone.
func (r *UserRepo) SearchAll(ctx context.Context, q SearchQuery) ([]model.User, Page, error) {
	q = q.normalize()

	cond := "LOWER(username) LIKE ?"
	args := []any{likePattern(q.Q)}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, Page{}, err
	}

	// Ties on the sort column break by id in the same direction so the
	// ordering is deterministic across pages.
	dataSQL := "SELECT " + userColumns + " FROM users WHERE " + cond +
		" ORDER BY " + q.Sort + " " + q.Order + ", id " + q.Order +
		" LIMIT ? OFFSET ?"
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	users, err := collectUsers(r.DB.QueryContext(ctx, dataSQL, args...))
	if err != nil {
		return nil, Page{}, err
	}
	return users, NewPage(total, q.Page, q.PerPage), nil
}

// SearchFriends returns one page of a user's friend set whose username
// or email contains the keyword, case-insensitively.
func (r *FriendshipRepo) SearchFriends(ctx context.Context, userID uint64, q SearchQuery) ([]model.User, Page, error) {
	q = q.normalize()

	base := " FROM users u JOIN friendship f ON f.friend_id = u.id" +
		" WHERE f.user_id=? AND (LOWER(u.username) LIKE ? OR LOWER(u.email) LIKE ?)"
	pat := likePattern(q.Q)
	args := []any{userID, pat, pat}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, Page{}, err
	}

	dataSQL := "SELECT u." + strings.ReplaceAll(userColumns, ", ", ", u.") + base +
		" ORDER BY u." + q.Sort + " " + q.Order + ", u.id " + q.Order +
		" LIMIT ? OFFSET ?"
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)

	users, err := collectUsers(r.DB.QueryContext(ctx, dataSQL, args...))
	if err != nil {
		return nil, Page{}, err
	}
	return users, NewPage(total, q.Page, q.PerPage), nil
}

func collectUsers(rows *sql.Rows, err error) ([]model.User, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive,
			&u.AvatarImage, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
