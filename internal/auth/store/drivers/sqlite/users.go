package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
	"github.com/aussiebroadwan/conduit/internal/auth/store"
)

const userColumns = `id, handle, email, password_hash, is_active, is_staff, is_superuser, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Handle, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE handle = ?`, handle))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Handle, u.Email, u.PasswordHash,
		u.IsActive, u.IsStaff, u.IsSuperuser,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.update(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdateFlags(ctx context.Context, userID string, active, staff, superuser bool) error {
	return r.update(ctx,
		`UPDATE users SET is_active = ?, is_staff = ?, is_superuser = ?, updated_at = ? WHERE id = ?`,
		active, staff, superuser, time.Now().UTC(), userID)
}

func (r *usersRepo) CountSuperusers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_superuser = 1`).Scan(&n)
	return n, err
}

// LockSuperusers takes the database write lock early. A deferred transaction
// otherwise reads a snapshot that a concurrent writer can invalidate.
func (r *usersRepo) LockSuperusers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_superuser = is_superuser WHERE 0`)
	return err
}

// update runs a single row UPDATE, reporting store.ErrNotFound when no row
// matched.
func (r *usersRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
