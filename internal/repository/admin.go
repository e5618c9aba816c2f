package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project_ria/internal/apperr"
	"project_ria/internal/entities"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByUsername returns (nil, nil) when the user does not exist.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*entities.AdminUser, error) {
	var u entities.AdminUser
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, role, COALESCE(client_id, ''), created_at
		FROM admin_users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.TenantID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindPersistence, "admin.get", err)
	}
	return &u, nil
}

func (r *AdminRepository) Create(ctx context.Context, u *entities.AdminUser) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO admin_users (username, password_hash, role, client_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.PasswordHash, u.Role, u.TenantID).Scan(&u.ID)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistence, "admin.create", err)
	}
	return nil
}
