package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
	"github.com/aussiebroadwan/conduit/internal/auth/store"
)

const userColumns = `id, handle, email, password_hash, is_active, is_staff, is_superuser, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row *sql.Row) (domain.User, error) {
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
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE handle = $1`, handle))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdateFlags(ctx context.Context, userID string, active, staff, superuser bool) error {
	return r.update(ctx,
		`UPDATE users SET is_active = $1, is_staff = $2, is_superuser = $3, updated_at = $4 WHERE id = $5`,
		active, staff, superuser, time.Now().UTC(), userID)
}

func (r *usersRepo) CountSuperusers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_superuser`).Scan(&n)
	return n, err
}

// superuserLockKey identifies the advisory lock guarding superuser creation.
const superuserLockKey int64 = 0x636f6e6475697401

func (r *usersRepo) LockSuperusers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, superuserLockKey)
	return err
}

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
