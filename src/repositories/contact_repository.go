package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meridian-studio/contact-backend/src/models"
)

const contactColumns = `id, name, email, phone, subject, message, company, source, status, reply, replied_at, ip_address, user_agent, created_at, updated_at`

// PgxContactRepository is the PostgreSQL implementation of ContactRepository
type PgxContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgxContactRepository creates a new PostgreSQL contact repository
func NewPgxContactRepository(pool *pgxpool.Pool) *PgxContactRepository {
	return &PgxContactRepository{pool: pool}
}

func scanSubmission(row pgx.Row) (*models.ContactSubmission, error) {
	sub := &models.ContactSubmission{}
	err := row.Scan(
		&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Subject,
		&sub.Message, &sub.Company, &sub.Source, &sub.Status,
		&sub.Reply, &sub.RepliedAt, &sub.IPAddress, &sub.UserAgent,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Create inserts a new contact submission
func (r *PgxContactRepository) Create(ctx context.Context, sub *models.ContactSubmission) error {
	query := `
		INSERT INTO contact_submissions
			(id, name, email, phone, subject, message, company, source, status, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Subject, sub.Message,
		sub.Company, sub.Source, sub.Status, sub.IPAddress, sub.UserAgent,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// GetByID looks up a submission by id
func (r *PgxContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = $1`
	return scanSubmission(r.pool.QueryRow(ctx, query, id))
}

// List returns a page of submissions plus the total matching count
func (r *PgxContactRepository) List(ctx context.Context, filter ContactFilter) ([]*models.ContactSubmission, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	where := ""
	args := []interface{}{}
	if filter.Status != nil {
		where = "WHERE status = $1"
		args = append(args, *filter.Status)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM contact_submissions " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+contactColumns+`
		FROM contact_submissions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*models.ContactSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// UpdateStatus changes the review status of a submission
func (r *PgxContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error {
	query := `UPDATE contact_submissions SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReply stores the reply text and marks the submission replied
func (r *PgxContactRepository) SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) error {
	query := `
		UPDATE contact_submissions
		SET reply = $1, replied_at = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.pool.Exec(ctx, query, reply, at, models.StatusReplied, id)
	if err != nil {
		return fmt.Errorf("failed to set reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a submission
func (r *PgxContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountDuplicates counts submissions with identical email and message created
// at or after since
func (r *PgxContactRepository) CountDuplicates(ctx context.Context, email, message string, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM contact_submissions
		WHERE email = $1 AND message = $2 AND created_at >= $3
	`
	if err := r.pool.QueryRow(ctx, query, email, message, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count duplicates: %w", err)
	}
	return count, nil
}

// CountByIPSince counts submissions from an IP created at or after since
func (r *PgxContactRepository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM contact_submissions
		WHERE ip_address = $1 AND created_at >= $2
	`
	if err := r.pool.QueryRow(ctx, query, ip, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions by ip: %w", err)
	}
	return count, nil
}

// CountByStatus returns submission counts grouped by status
func (r *PgxContactRepository) CountByStatus(ctx context.Context) (map[models.SubmissionStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM contact_submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SubmissionStatus]int)
	for rows.Next() {
		var status models.SubmissionStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DeleteResolvedBefore removes resolved submissions older than cutoff
func (r *PgxContactRepository) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM contact_submissions WHERE status = $1 AND created_at < $2`,
		models.StatusResolved, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old submissions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ensure PgxContactRepository implements the interface
var _ ContactRepository = (*PgxContactRepository)(nil)
