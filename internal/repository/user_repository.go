package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/social-network-api/internal/model"
)

const userColumns = "id, username, email, password_hash, is_active, avatar_image, created_at, updated_at"

// UserRepo persists user records in the 'users' table. Uniqueness of
// username and email is enforced both by a pre-check and by the unique
// indexes on the table, so true races surface as duplicate-key errors
// and are mapped to the same sentinels.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive,
		&u.AvatarImage, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// Create inserts a new, not yet activated user and returns the stored row.
// The caller supplies an already hashed password.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	// Pre-check both unique columns so the caller gets a precise error.
	if _, err := r.GetByUsername(ctx, username); err == nil {
		return model.User{}, ErrUsernameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return model.User{}, err
	}
	if _, err := r.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return model.User{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, is_active) VALUES (?,?,?,0)",
		username, email, passwordHash)
	if err != nil {
		return model.User{}, dupKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// dupKeyError maps MySQL duplicate-key violations (error 1062) onto the
// per-column sentinels. The index name tells the columns apart.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	if strings.Contains(msg, "email") {
		return ErrEmailExists
	}
	return ErrUsernameExists
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))))
}

// Activate flips the activation flag exactly once. A second call fails
// with ErrAlreadyActive and leaves the row unchanged. Existence of the
// user must have been established by the caller.
func (r *UserRepo) Activate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=1 WHERE id=? AND is_active=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyActive
	}
	return nil
}

// Update applies partial-update semantics: empty strings leave the
// existing value unchanged, so a field cannot be cleared through this
// interface. The password argument must already be hashed.
func (r *UserRepo) Update(ctx context.Context, id uint64, username, email, passwordHash string) (model.User, error) {
	sets := []string{}
	args := []any{}
	if username = strings.TrimSpace(username); username != "" {
		sets = append(sets, "username=?")
		args = append(args, username)
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		sets = append(sets, "email=?")
		args = append(args, email)
	}
	if passwordHash != "" {
		sets = append(sets, "password_hash=?")
		args = append(args, passwordHash)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=?", args...)
		if err != nil {
			return model.User{}, dupKeyError(err)
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateAvatar stores the avatar filename for a user.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, filename string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_image=?, updated_at=NOW() WHERE id=?", filename, id)
	return err
}

// Delete removes the user row and, in the same transaction, every
// friendship edge referencing it in either direction.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
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

	if _, err = tx.ExecContext(ctx,
		"DELETE FROM friendship WHERE user_id=? OR friend_id=?", id, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id); err != nil {
		return err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return err
	}
	if n == 0 {
		err = ErrUserNotFound
	}
	return err
}
