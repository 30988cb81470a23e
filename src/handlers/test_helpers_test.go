package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/middleware"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
	"github.com/meridian-studio/contact-backend/src/repositories/mock"
	"github.com/meridian-studio/contact-backend/src/services"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "handler-test-secret-32-characters"

// newMemoryAdminRepo wires the mock admin repository to an in-memory map so
// handler tests can run real login/register flows end to end
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

// testEnv bundles the services and router a handler test talks to
type testEnv struct {
	router      *gin.Engine
	admins      *services.AdminService
	tokens      *services.TokenService
	contactRepo *mock.ContactRepository
}

// newTestEnv builds a router with the same route layout and middleware the
// server uses, backed by mock repositories
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminService := services.NewAdminService(newMemoryAdminRepo())
	tokenService, err := services.NewTokenService(testJWTSecret, time.Hour)
	require.NoError(t, err)

	contactRepo := mock.NewContactRepository()
	guard := services.NewGuardService(contactRepo, services.GuardConfig{})
	contactService := services.NewContactService(contactRepo, guard, nil, "")

	authHandler := NewAuthHandler(adminService, tokenService)
	contactHandler := NewContactHandler(contactService)

	requireAuth := middleware.AdminAuth(tokenService, adminService)
	requireSuperAdmin := middleware.RequireRole(models.RoleSuperAdmin)

	router := gin.New()
	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.HandleLogin)
	auth.POST("/register", requireAuth, requireSuperAdmin, authHandler.HandleRegister)
	auth.GET("/me", requireAuth, authHandler.HandleMe)
	auth.PUT("/change-password", requireAuth, authHandler.HandleChangePassword)
	auth.POST("/logout", requireAuth, authHandler.HandleLogout)

	contact := api.Group("/contact")
	contact.POST("", contactHandler.HandleSubmit)
	contact.GET("/stats", contactHandler.HandleStats)
	contact.GET("", requireAuth, contactHandler.HandleList)
	contact.GET("/export/csv", requireAuth, contactHandler.HandleExportCSV)
	contact.GET("/:id", requireAuth, contactHandler.HandleGet)
	contact.PUT("/:id", requireAuth, contactHandler.HandleUpdate)
	contact.DELETE("/:id", requireAuth, contactHandler.HandleDelete)
	contact.POST("/:id/reply", requireAuth, contactHandler.HandleReply)

	return &testEnv{
		router:      router,
		admins:      adminService,
		tokens:      tokenService,
		contactRepo: contactRepo,
	}
}

// seedAdmin creates an admin and returns it with a fresh session token
func (env *testEnv) seedAdmin(t *testing.T, username string, role models.Role) (*models.Admin, string) {
	t.Helper()
	admin, err := env.admins.CreateAdmin(context.Background(), services.CreateAdminInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)

	token, _, err := env.tokens.Issue(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)
	return admin, token
}

// doJSON performs a request with an optional JSON body and bearer token
func (env *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.9:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
