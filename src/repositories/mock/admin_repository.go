package mock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
)

// AdminRepository is a mock implementation of repositories.AdminRepository
type AdminRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc          func(ctx context.Context, admin *models.Admin) error
	GetByIdentifierFunc func(ctx context.Context, identifier string) (*models.Admin, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	UpdatePasswordFunc  func(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	CountFunc           func(ctx context.Context) (int, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewAdminRepository creates a new mock admin repository
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	m.Calls["Create"] = append(m.Calls["Create"], admin)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return nil
}

func (m *AdminRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Admin, error) {
	m.Calls["GetByIdentifier"] = append(m.Calls["GetByIdentifier"], identifier)
	if m.GetByIdentifierFunc != nil {
		return m.GetByIdentifierFunc(ctx, identifier)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.Calls["UpdatePassword"] = append(m.Calls["UpdatePassword"], passwordHash)
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *AdminRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.Calls["UpdateLastLogin"] = append(m.Calls["UpdateLastLogin"], id)
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *AdminRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"] = append(m.Calls["Count"], nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Ensure AdminRepository implements the interface
var _ repositories.AdminRepository = (*AdminRepository)(nil)
