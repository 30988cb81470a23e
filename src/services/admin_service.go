package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-studio/contact-backend/src/models"
	"github.com/meridian-studio/contact-backend/src/repositories"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor for stored admin passwords
const passwordHashCost = 12

// dummyHash is a well-formed hash compared on lookup misses so an unknown
// identifier costs about as much as a password mismatch
const dummyHash = "$2a$12$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidationError describes a single rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AdminService is the credential store: it owns admin account lookup,
// password verification and password changes
type AdminService struct {
	repo repositories.AdminRepository
}

// NewAdminService creates a new admin service
func NewAdminService(repo repositories.AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

// CreateAdminInput carries the fields for a new admin account
type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     models.Role
}

func validateNewAdmin(in *CreateAdminInput) error {
	if !usernameRe.MatchString(in.Username) {
		return &ValidationError{Field: "username", Message: "must be 3-20 characters, alphanumeric or underscore"}
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRe.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}
	if !models.ValidRole(in.Role) {
		return &ValidationError{Field: "role", Message: "must be admin or super_admin"}
	}
	return nil
}

// CreateAdmin creates a new admin account with a hashed password
func (as *AdminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.Admin, error) {
	if err := validateNewAdmin(&in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	admin.UpdatedAt = admin.CreatedAt

	if err := as.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return nil, fmt.Errorf("username or email %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// Authenticate verifies an identifier (username or email) and password.
// A lookup miss and a password mismatch both yield ErrInvalidCredentials so
// callers cannot tell which field was wrong.
func (as *AdminService) Authenticate(ctx context.Context, identifier, password string) (*models.Admin, error) {
	admin, err := as.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Hash anyway to keep lookup-miss timing close to a mismatch
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Last-login stamp is best effort; a failure must not block the login
	now := time.Now()
	if err := as.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		log.Error().Err(err).Str("username", admin.Username).Msg("failed to update last_login")
	}
	admin.LastLogin = &now

	return admin, nil
}

// GetByID returns an admin by id (any active state); used by the auth
// middleware to re-check the active flag per request
func (as *AdminService) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	return admin, nil
}

// ChangePassword re-verifies the current password, then stores a fresh hash
// of the new one. Every change produces a new salt; nothing is re-hashed
// unless the password actually changes.
func (as *AdminService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	admin, err := as.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 8 {
		return &ValidationError{Field: "newPassword", Message: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordHashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := as.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

// HasAdmins reports whether any admin accounts exist
func (as *AdminService) HasAdmins(ctx context.Context) (bool, error) {
	count, err := as.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SeedSuperAdmin creates the initial super_admin account on an empty store.
// It is a no-op when any admin already exists.
func (as *AdminService) SeedSuperAdmin(ctx context.Context, username, email, password string) (*models.Admin, error) {
	hasAdmins, err := as.HasAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing admins: %w", err)
	}
	if hasAdmins {
		return nil, nil
	}

	return as.CreateAdmin(ctx, CreateAdminInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     models.RoleSuperAdmin,
	})
}
