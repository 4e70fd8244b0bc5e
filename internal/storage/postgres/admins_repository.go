package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pankhokiudaan/server/internal/domain/admins"
	"github.com/pankhokiudaan/server/internal/domain/ids"
)

var _ admins.Repository = (*AdminRepository)(nil)

type AdminRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const adminColumns = `id, username, email, password_hash, role, is_active, last_login_at, created_at, updated_at`

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*admins.Admin, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = lower($1)`, username)
	return scanAdmin(row)
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*admins.Admin, error) {
	uuid, err := ids.ParseUUID(id)
	if err != nil {
		return nil, admins.ErrNotFound
	}
	row := pick(r.pool, r.tx).QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, uuid)
	return scanAdmin(row)
}

func (r *AdminRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := pick(r.pool, r.tx).QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM admins WHERE username = lower($1) OR email = lower($2)
)`, username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return exists, nil
}

func (r *AdminRepository) Create(ctx context.Context, params admins.CreateParams) (*admins.Admin, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `
INSERT INTO admins (username, email, password_hash, role)
VALUES (lower($1), lower($2), $3, $4)
RETURNING `+adminColumns,
		params.Username, params.Email, params.PasswordHash, params.Role,
	)
	admin, err := scanAdmin(row)
	if err != nil {
		if uniqueViolationOn(err, "") {
			return nil, admins.ErrConflict
		}
		return nil, err
	}
	return admin, nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	uuid, err := ids.ParseUUID(id)
	if err != nil {
		return admins.ErrNotFound
	}
	tag, err := pick(r.pool, r.tx).Exec(ctx,
		`UPDATE admins SET last_login_at = $2, updated_at = now() WHERE id = $1`, uuid, at)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return admins.ErrNotFound
	}
	return nil
}

func (r *AdminRepository) SetActive(ctx context.Context, username string, active bool) (*admins.Admin, error) {
	row := pick(r.pool, r.tx).QueryRow(ctx, `
UPDATE admins SET is_active = $2, updated_at = now()
 WHERE username = lower($1)
RETURNING `+adminColumns, username, active)
	return scanAdmin(row)
}

func scanAdmin(row pgx.Row) (*admins.Admin, error) {
	var (
		id        pgtype.UUID
		lastLogin pgtype.Timestamptz
		admin     admins.Admin
	)
	err := row.Scan(
		&id,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.IsActive,
		&lastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admins.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	admin.ID = ids.UUIDToString(id)
	admin.LastLoginAt = timePtr(lastLogin)
	return &admin, nil
}
