package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/social-network-api/internal/model"
)

// FriendshipRepo maintains the symmetric friendship relation. Each edge
// is stored as two directed rows written inside one transaction, so
// every reader sees "A is friend with B" exactly when it sees "B is
// friend with A". Concurrent adds on the same pair serialize on the
// primary key (user_id, friend_id).
type FriendshipRepo struct{ DB *sql.DB }

func NewFriendshipRepo(db *sql.DB) *FriendshipRepo { return &FriendshipRepo{DB: db} }

// Exists reports whether the directed row user→friend is present. Due
// to the write discipline this is equivalent to asking about the
// undirected edge.
func (r *FriendshipRepo) Exists(ctx context.Context, userID, friendID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM friendship WHERE user_id=? AND friend_id=? LIMIT 1",
		userID, friendID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Add creates the edge between two existing users. Preconditions, first
// failure wins: no self-friendship, no duplicate edge. Both directed
// rows and both users' updated_at are written in one transaction.
func (r *FriendshipRepo) Add(ctx context.Context, userID, friendID uint64) error {
	if userID == friendID {
		return ErrSelfFriendship
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM friendship WHERE user_id=? AND friend_id=? LIMIT 1 FOR UPDATE",
		userID, friendID).Scan(&one)
	if err == nil {
		err = ErrAlreadyFriends
		return err
	}
	if err != sql.ErrNoRows {
		return err
	}
	err = nil

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO friendship (user_id, friend_id) VALUES (?,?),(?,?)",
		userID, friendID, friendID, userID); err != nil {
		// A racing add lands here via the primary key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			err = ErrAlreadyFriends
		}
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE users SET updated_at=NOW() WHERE id IN (?,?)", userID, friendID)
	return err
}

// Remove deletes both directed rows in one transaction. Removing an
// edge that does not exist fails with ErrNotFriends and mutates nothing.
func (r *FriendshipRepo) Remove(ctx context.Context, userID, friendID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var res sql.Result
	if res, err = tx.ExecContext(ctx,
		"DELETE FROM friendship WHERE (user_id=? AND friend_id=?) OR (user_id=? AND friend_id=?)",
		userID, friendID, friendID, userID); err != nil {
		return err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return err
	}
	if n == 0 {
		err = ErrNotFriends
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE users SET updated_at=NOW() WHERE id IN (?,?)", userID, friendID)
	return err
}

// List returns the one-hop friend set of a user in storage order.
func (r *FriendshipRepo) List(ctx context.Context, userID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT u."+strings.ReplaceAll(userColumns, ", ", ", u.")+
			" FROM users u JOIN friendship f ON f.friend_id = u.id WHERE f.user_id=? ORDER BY u.id",
		userID)
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
