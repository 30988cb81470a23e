package services

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-studio/contact-backend/src/repositories"
)

// GuardConfig holds submission guard thresholds
type GuardConfig struct {
	// DuplicateWindow is how long an identical (email, message) pair is
	// rejected after a submission
	DuplicateWindow time.Duration
	// ContactQuota is the number of submissions allowed per IP per window
	ContactQuota int
	// ContactQuotaWindow is the quota window length
	ContactQuotaWindow time.Duration
}

// GuardService decides whether an inbound contact submission is a duplicate
// or whether the sender has exhausted its quota. Both checks are advisory
// gates run before the record is written; the check and the subsequent
// insert are not atomic, so two identical concurrent submissions inside the
// window can both land.
type GuardService struct {
	repo repositories.ContactRepository
	cfg  GuardConfig
}

// NewGuardService creates a submission guard with sensible defaults for any
// unset threshold (5 minutes, 5 submissions per hour)
func NewGuardService(repo repositories.ContactRepository, cfg GuardConfig) *GuardService {
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = 5 * time.Minute
	}
	if cfg.ContactQuota <= 0 {
		cfg.ContactQuota = 5
	}
	if cfg.ContactQuotaWindow <= 0 {
		cfg.ContactQuotaWindow = time.Hour
	}
	return &GuardService{repo: repo, cfg: cfg}
}

// IsDuplicate reports whether a submission with identical email and message
// was created inside the duplicate window ending at now. The window start is
// inclusive.
func (gs *GuardService) IsDuplicate(ctx context.Context, email, message string, now time.Time) (bool, error) {
	since := now.Add(-gs.cfg.DuplicateWindow)
	count, err := gs.repo.CountDuplicates(ctx, email, message, since)
	if err != nil {
		return false, fmt.Errorf("duplicate check failed: %w", err)
	}
	return count > 0, nil
}

// IsRateLimited reports whether the IP already reached the submission quota
// inside the quota window ending at now
func (gs *GuardService) IsRateLimited(ctx context.Context, ip string, now time.Time) (bool, error) {
	since := now.Add(-gs.cfg.ContactQuotaWindow)
	count, err := gs.repo.CountByIPSince(ctx, ip, since)
	if err != nil {
		return false, fmt.Errorf("quota check failed: %w", err)
	}
	return count >= gs.cfg.ContactQuota, nil
}
