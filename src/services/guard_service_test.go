package services

import (
	"context"
	"testing"
	"time"

	"github.com/meridian-studio/contact-backend/src/repositories/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardService_IsDuplicate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("passes the window start to the repository", func(t *testing.T) {
		repo := mock.NewContactRepository()
		var gotSince time.Time
		repo.CountDuplicatesFunc = func(ctx context.Context, email, message string, since time.Time) (int, error) {
			gotSince = since
			return 0, nil
		}

		guard := NewGuardService(repo, GuardConfig{DuplicateWindow: 5 * time.Minute})
		dup, err := guard.IsDuplicate(ctx, "a@b.co", "hello", now)
		require.NoError(t, err)
		assert.False(t, dup)
		assert.Equal(t, now.Add(-5*time.Minute), gotSince)
	})

	t.Run("any prior match in window is a duplicate", func(t *testing.T) {
		repo := mock.NewContactRepository()
		repo.CountDuplicatesFunc = func(ctx context.Context, email, message string, since time.Time) (int, error) {
			return 1, nil
		}

		guard := NewGuardService(repo, GuardConfig{})
		dup, err := guard.IsDuplicate(ctx, "a@b.co", "hello", now)
		require.NoError(t, err)
		assert.True(t, dup)
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		repo := mock.NewContactRepository()
		repo.CountDuplicatesFunc = func(ctx context.Context, email, message string, since time.Time) (int, error) {
			return 0, assert.AnError
		}

		guard := NewGuardService(repo, GuardConfig{})
		_, err := guard.IsDuplicate(ctx, "a@b.co", "hello", now)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestGuardService_IsRateLimited(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("below quota is allowed", func(t *testing.T) {
		repo := mock.NewContactRepository()
		repo.CountByIPSinceFunc = func(ctx context.Context, ip string, since time.Time) (int, error) {
			return 4, nil
		}

		guard := NewGuardService(repo, GuardConfig{ContactQuota: 5, ContactQuotaWindow: time.Hour})
		limited, err := guard.IsRateLimited(ctx, "203.0.113.9", now)
		require.NoError(t, err)
		assert.False(t, limited)
	})

	t.Run("at quota is limited", func(t *testing.T) {
		repo := mock.NewContactRepository()
		var gotIP string
		var gotSince time.Time
		repo.CountByIPSinceFunc = func(ctx context.Context, ip string, since time.Time) (int, error) {
			gotIP, gotSince = ip, since
			return 5, nil
		}

		guard := NewGuardService(repo, GuardConfig{ContactQuota: 5, ContactQuotaWindow: time.Hour})
		limited, err := guard.IsRateLimited(ctx, "203.0.113.9", now)
		require.NoError(t, err)
		assert.True(t, limited)
		assert.Equal(t, "203.0.113.9", gotIP)
		assert.Equal(t, now.Add(-time.Hour), gotSince)
	})

	t.Run("zero-value config falls back to defaults", func(t *testing.T) {
		repo := mock.NewContactRepository()
		var gotSince time.Time
		repo.CountByIPSinceFunc = func(ctx context.Context, ip string, since time.Time) (int, error) {
			gotSince = since
			return 4, nil
		}

		guard := NewGuardService(repo, GuardConfig{})
		limited, err := guard.IsRateLimited(ctx, "203.0.113.9", now)
		require.NoError(t, err)
		assert.False(t, limited, "4 of the default 5 per hour")
		assert.Equal(t, now.Add(-time.Hour), gotSince)
	})
}
