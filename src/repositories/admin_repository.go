package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meridian-studio/contact-backend/src/models"
)

const adminColumns = `id, username, email, password_hash, full_name, role, is_active, last_login, created_at, updated_at`

// PgxAdminRepository is the PostgreSQL implementation of AdminRepository
type PgxAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAdminRepository creates a new PostgreSQL admin repository
func NewPgxAdminRepository(pool *pgxpool.Pool) *PgxAdminRepository {
	return &PgxAdminRepository{pool: pool}
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	admin := &models.Admin{}
	err := row.Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash,
		&admin.FullName, &admin.Role, &admin.IsActive, &admin.LastLogin,
		&admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return admin, nil
}

// Create inserts a new admin record
func (r *PgxAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		admin.ID, admin.Username, admin.Email, admin.PasswordHash,
		admin.FullName, admin.Role, admin.IsActive, admin.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUniqueViolation
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetByIdentifier looks up an active admin by username or email
func (r *PgxAdminRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admins
		WHERE (username = $1 OR email = $1) AND is_active = true
	`
	return scanAdmin(r.pool.QueryRow(ctx, query, identifier))
}

// GetByID looks up an admin by id regardless of active flag
func (r *PgxAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(r.pool.QueryRow(ctx, query, id))
}

// UpdatePassword overwrites the stored hash
func (r *PgxAdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE admins SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last-login time
func (r *PgxAdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE admins SET last_login = $1 WHERE id = $2`
	_, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last_login: %w", err)
	}
	return nil
}

// Count returns the number of admin accounts
func (r *PgxAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// Ensure PgxAdminRepository implements the interface
var _ AdminRepository = (*PgxAdminRepository)(nil)
