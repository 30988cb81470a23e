package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
	"github.com/meridian-studio/contact-backend/src/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newMemoryAdminRepo wires a mock repository to an in-memory map so tests
// can exercise full create/authenticate/change-password flows
func newMemoryAdminRepo() *mock.AdminRepository {
	var mu sync.Mutex
	byID := make(map[uuid.UUID]*models.Admin)

	repo := mock.NewAdminRepository()
	repo.CreateFunc = func(ctx context.Context, admin *models.Admin) error {
		mu.Lock()
		defer mu.Unlock()
		for _, a := range byID {
			if a.Username == admin.Username || a.Email == admin.Email {
				return repositories.ErrUniqueViolation
			}
		}
		cp := *admin
		byID[admin.ID] = &cp
		return nil
	}
	repo.GetByIdentifierFunc = func(ctx context.Context, identifier string) (*models.Admin, error) {
		mu.Lock()
		defer mu.Unlock()
		for _, a := range byID {
			if (a.Username == identifier || a.Email == identifier) && a.IsActive {
				cp := *a
				return &cp, nil
			}
		}
		return nil, repositories.ErrNotFound
	}
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
		mu.Lock()
		defer mu.Unlock()
		if a, ok := byID[id]; ok {
			cp := *a
			return &cp, nil
		}
		return nil, repositories.ErrNotFound
	}
	repo.UpdatePasswordFunc = func(ctx context.Context, id uuid.UUID, hash string) error {
		mu.Lock()
		defer mu.Unlock()
		a, ok := byID[id]
		if !ok {
			return repositories.ErrNotFound
		}
		a.PasswordHash = hash
		return nil
	}
	repo.UpdateLastLoginFunc = func(ctx context.Context, id uuid.UUID, at time.Time) error {
		mu.Lock()
		defer mu.Unlock()
		if a, ok := byID[id]; ok {
			a.LastLogin = &at
		}
		return nil
	}
	repo.CountFunc = func(ctx context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return len(byID), nil
	}
	return repo
}

func TestAdminService_CreateAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin with hashed password", func(t *testing.T) {
		service := NewAdminService(newMemoryAdminRepo())

		admin, err := service.CreateAdmin(ctx, CreateAdminInput{
			Username: "superadmin",
			Email:    "Admin@Example.COM",
			Password: "admin123456",
			Role:     models.RoleSuperAdmin,
		})
		require.NoError(t, err)

		assert.Equal(t, "superadmin", admin.Username)
		assert.Equal(t, "admin@example.com", admin.Email, "email is stored lowercase")
		assert.Equal(t, models.RoleSuperAdmin, admin.Role)
		assert.True(t, admin.IsActive)
		assert.NotEqual(t, "admin123456", admin.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin123456")))
	})

	t.Run("defaults role to admin", func(t *testing.T) {
		service := NewAdminService(newMemoryAdminRepo())

		admin, err := service.CreateAdmin(ctx, CreateAdminInput{
			Username: "reviewer",
			Email:    "reviewer@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		service := NewAdminService(newMemoryAdminRepo())

		cases := []struct {
			name  string
			in    CreateAdminInput
			field string
		}{
			{"short username", CreateAdminInput{Username: "ab", Email: "a@b.co", Password: "password123"}, "username"},
			{"illegal username chars", CreateAdminInput{Username: "bad name!", Email: "a@b.co", Password: "password123"}, "username"},
			{"bad email", CreateAdminInput{Username: "admin_1", Email: "nope", Password: "password123"}, "email"},
			{"short password", CreateAdminInput{Username: "admin_1", Email: "a@b.co", Password: "short"}, "password"},
			{"unknown role", CreateAdminInput{Username: "admin_1", Email: "a@b.co", Password: "password123", Role: "owner"}, "role"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.CreateAdmin(ctx, tc.in)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tc.field, verr.Field)
			})
		}
	})

	t.Run("duplicate username or email conflicts", func(t *testing.T) {
		service := NewAdminService(newMemoryAdminRepo())

		_, err := service.CreateAdmin(ctx, CreateAdminInput{
			Username: "admin_1", Email: "one@example.com", Password: "password123",
		})
		require.NoError(t, err)

		_, err = service.CreateAdmin(ctx, CreateAdminInput{
			Username: "admin_1", Email: "two@example.com", Password: "password123",
		})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = service.CreateAdmin(ctx, CreateAdminInput{
			Username: "admin_2", Email: "one@example.com", Password: "password123",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestAdminService_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryAdminRepo()
	service := NewAdminService(repo)

	admin, err := service.CreateAdmin(ctx, CreateAdminInput{
		Username: "superadmin",
		Email:    "admin@example.com",
		Password: "admin123456",
		Role:     models.RoleSuperAdmin,
	})
	require.NoError(t, err)

	t.Run("valid username and password", func(t *testing.T) {
		got, err := service.Authenticate(ctx, "superadmin", "admin123456")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
		assert.Equal(t, models.RoleSuperAdmin, got.Role)
		assert.NotNil(t, got.LastLogin, "last login is stamped")
	})

	t.Run("email works as identifier", func(t *testing.T) {
		got, err := service.Authenticate(ctx, "admin@example.com", "admin123456")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, errWrong := service.Authenticate(ctx, "superadmin", "not-the-password")
		_, errUnknown := service.Authenticate(ctx, "nobody", "admin123456")

		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("inactive admin cannot authenticate", func(t *testing.T) {
		repo2 := newMemoryAdminRepo()
		service2 := NewAdminService(repo2)

		_, err := service2.CreateAdmin(ctx, CreateAdminInput{
			Username: "disabled", Email: "disabled@example.com", Password: "password123",
		})
		require.NoError(t, err)

		// Deactivated accounts miss the active-only lookup
		repo2.GetByIdentifierFunc = func(ctx context.Context, identifier string) (*models.Admin, error) {
			return nil, repositories.ErrNotFound
		}

		_, err = service2.Authenticate(ctx, "disabled", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAdminService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	service := NewAdminService(newMemoryAdminRepo())

	admin, err := service.CreateAdmin(ctx, CreateAdminInput{
		Username: "superadmin",
		Email:    "admin@example.com",
		Password: "admin123456",
	})
	require.NoError(t, err)

	t.Run("wrong current password is rejected", func(t *testing.T) {
		err := service.ChangePassword(ctx, admin.ID, "wrong", "newpassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("too short new password is rejected", func(t *testing.T) {
		err := service.ChangePassword(ctx, admin.ID, "admin123456", "short")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("change swaps which password verifies", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(ctx, admin.ID, "admin123456", "newpassword1"))

		_, err := service.Authenticate(ctx, "superadmin", "admin123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials, "old password no longer verifies")

		got, err := service.Authenticate(ctx, "superadmin", "newpassword1")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, got.ID)
	})
}

func TestAdminService_SeedSuperAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds on empty store", func(t *testing.T) {
		service := NewAdminService(newMemoryAdminRepo())

		admin, err := service.SeedSuperAdmin(ctx, "superadmin", "admin@example.com", "admin123456")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.Equal(t, models.RoleSuperAdmin, admin.Role)
	})

	t.Run("no-op when admins exist", func(t *testing.T) {
		service := NewAdminService(newMemoryAdminRepo())

		first, err := service.SeedSuperAdmin(ctx, "superadmin", "admin@example.com", "admin123456")
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := service.SeedSuperAdmin(ctx, "other", "other@example.com", "admin123456")
		require.NoError(t, err)
		assert.Nil(t, second)
	})
}
