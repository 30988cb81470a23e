package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
)

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrUniqueViolation indicates an insert hit a unique constraint
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// AdminRepository defines the interface for admin account data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error

	// GetByIdentifier looks up an active admin whose username or email
	// matches identifier
	GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int, error)
}

// ContactFilter narrows List results
type ContactFilter struct {
	Status *models.SubmissionStatus
	Limit  int
	Offset int
}

// ContactRepository defines the interface for contact submission data access
type ContactRepository interface {
	Create(ctx context.Context, sub *models.ContactSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error)
	List(ctx context.Context, filter ContactFilter) ([]*models.ContactSubmission, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error
	SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Submission guard queries: counts over inclusive-at-start time windows
	CountDuplicates(ctx context.Context, email, message string, since time.Time) (int, error)
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error)

	CountByStatus(ctx context.Context) (map[models.SubmissionStatus]int, error)
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
