package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"salesapi/internal/domain"
)

const userColumns = `user_id, username, first_name, last_name, user_email, role_id, password_hash, created_at`

type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

// Create inserts u and sets its ID and CreatedAt.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users(username, first_name, last_name, user_email, role_id, password_hash, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, u.Username, u.FirstName, u.LastName, u.Email, u.Role, u.Hash, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt = now
	return nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE LOWER(user_email) = LOWER(?)`, email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ExistsByUsernameOrEmail is used by registration to reject duplicates.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `
		SELECT COUNT(*) FROM users WHERE username = ? OR LOWER(user_email) = LOWER(?)
	`, username, email)
	return n > 0, err
}

// ListNonAdmin returns every user whose role is not Admin, ordered by id.
func (r *UserRepo) ListNonAdmin(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT `+userColumns+` FROM users WHERE role_id != ? ORDER BY user_id
	`, domain.RoleAdmin)
	return out, err
}

// UpdateProfile changes the mutable profile fields. The role is left untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET username = ?, first_name = ?, last_name = ?, user_email = ?
		WHERE user_id = ?
	`, u.Username, u.FirstName, u.LastName, u.Email, u.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE user_id = ?`, hash, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, id)
	if isConstraint(err) {
		return ErrInUse
	}
	if err != nil {
		return err
	}
	return expectOne(res)
}
