package mock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
)

// ContactRepository is a mock implementation of repositories.ContactRepository
type ContactRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc               func(ctx context.Context, sub *models.ContactSubmission) error
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error)
	ListFunc                 func(ctx context.Context, filter repositories.ContactFilter) ([]*models.ContactSubmission, int, error)
	UpdateStatusFunc         func(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error
	SetReplyFunc             func(ctx context.Context, id uuid.UUID, reply string, at time.Time) error
	DeleteFunc               func(ctx context.Context, id uuid.UUID) error
	CountDuplicatesFunc      func(ctx context.Context, email, message string, since time.Time) (int, error)
	CountByIPSinceFunc       func(ctx context.Context, ip string, since time.Time) (int, error)
	CountByStatusFunc        func(ctx context.Context) (map[models.SubmissionStatus]int, error)
	DeleteResolvedBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewContactRepository creates a new mock contact repository
func NewContactRepository() *ContactRepository {
	return &ContactRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *ContactRepository) Create(ctx context.Context, sub *models.ContactSubmission) error {
	m.Calls["Create"] = append(m.Calls["Create"], sub)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *ContactRepository) List(ctx context.Context, filter repositories.ContactFilter) ([]*models.ContactSubmission, int, error) {
	m.Calls["List"] = append(m.Calls["List"], filter)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) error {
	m.Calls["UpdateStatus"] = append(m.Calls["UpdateStatus"], status)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *ContactRepository) SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) error {
	m.Calls["SetReply"] = append(m.Calls["SetReply"], reply)
	if m.SetReplyFunc != nil {
		return m.SetReplyFunc(ctx, id, reply, at)
	}
	return nil
}

func (m *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *ContactRepository) CountDuplicates(ctx context.Context, email, message string, since time.Time) (int, error) {
	m.Calls["CountDuplicates"] = append(m.Calls["CountDuplicates"], []interface{}{email, message, since})
	if m.CountDuplicatesFunc != nil {
		return m.CountDuplicatesFunc(ctx, email, message, since)
	}
	return 0, nil
}

func (m *ContactRepository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	m.Calls["CountByIPSince"] = append(m.Calls["CountByIPSince"], []interface{}{ip, since})
	if m.CountByIPSinceFunc != nil {
		return m.CountByIPSinceFunc(ctx, ip, since)
	}
	return 0, nil
}

func (m *ContactRepository) CountByStatus(ctx context.Context) (map[models.SubmissionStatus]int, error) {
	m.Calls["CountByStatus"] = append(m.Calls["CountByStatus"], nil)
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[models.SubmissionStatus]int{}, nil
}

func (m *ContactRepository) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.Calls["DeleteResolvedBefore"] = append(m.Calls["DeleteResolvedBefore"], cutoff)
	if m.DeleteResolvedBeforeFunc != nil {
		return m.DeleteResolvedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

// Ensure ContactRepository implements the interface
var _ repositories.ContactRepository = (*ContactRepository)(nil)
