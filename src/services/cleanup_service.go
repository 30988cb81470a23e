package services

import (
	"context"
	"sync"
	"time"

	"github.com/meridian-studio/contact-backend/src/logging"
	"github.com/meridian-studio/contact-backend/src/repositories"
	"github.com/rs/zerolog"
)

// CleanupService periodically purges resolved submissions past retention
type CleanupService struct {
	repo      repositories.ContactRepository
	enabled   bool
	retention time.Duration
	interval  time.Duration
	done      chan struct{}
	stopOnce  sync.Once
	log       zerolog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(repo repositories.ContactRepository, enabled bool, retentionDays int) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 365
	}
	return &CleanupService{
		repo:      repo,
		enabled:   enabled,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour, // Run daily
		done:      make(chan struct{}),
		log:       logging.NewLogger("cleanup"),
	}
}

// Start starts the cleanup loop
func (cs *CleanupService) Start(ctx context.Context) {
	if !cs.enabled {
		cs.log.Info().Msg("cleanup service is disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(cs.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				cs.log.Info().Msg("cleanup service stopped")
				return
			case <-cs.done:
				cs.log.Info().Msg("cleanup service stopped")
				return
			case <-ticker.C:
				cs.cleanup(ctx)
			}
		}
	}()

	cs.log.Info().Dur("retention", cs.retention).Msg("cleanup service started")
}

// Stop stops the cleanup loop. Safe to call even when the loop never started.
func (cs *CleanupService) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.done)
	})
}

// cleanup performs the actual purge
func (cs *CleanupService) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-cs.retention)
	deleted, err := cs.repo.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		cs.log.Error().Err(err).Msg("cleanup error")
		return
	}
	if deleted > 0 {
		cs.log.Info().Int64("deleted", deleted).Msg("purged old resolved submissions")
	}
}
