// Package scheduler runs periodic housekeeping jobs
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/silovra/silovra-backend/repository"
	"github.com/silovra/silovra-backend/utils"
)

// RetentionScheduler periodically removes rows past their retention window:
// expired sessions and raw click events. Click aggregates survive pruning,
// only the per-event rows go.
type RetentionScheduler struct {
	sessionRepo repository.ProfileSessionRepository
	clickRepo   repository.LinkClickRepository
	logger      *log.Logger
	interval    time.Duration

	sessionGrace   time.Duration
	clickRetention time.Duration
}

// NewRetentionScheduler creates a new retention scheduler
func NewRetentionScheduler(
	sessionRepo repository.ProfileSessionRepository,
	clickRepo repository.LinkClickRepository,
	logger *log.Logger,
	interval time.Duration,
	sessionGrace time.Duration,
	clickRetention time.Duration,
) *RetentionScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if sessionGrace <= 0 {
		sessionGrace = 24 * time.Hour
	}
	if clickRetention <= 0 {
		clickRetention = 365 * 24 * time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &RetentionScheduler{
		sessionRepo:    sessionRepo,
		clickRepo:      clickRepo,
		logger:         logger,
		interval:       interval,
		sessionGrace:   sessionGrace,
		clickRetention: clickRetention,
	}
}

// Start launches the pruning loop. The returned cancel function stops it.
func (s *RetentionScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *RetentionScheduler) runOnce(ctx context.Context) {
	now := utils.UTCNow()

	// Sessions get a grace window past expiry so refresh-token debugging
	// still has rows to look at
	removed, err := s.sessionRepo.DeleteExpiredBefore(ctx, now.Add(-s.sessionGrace))
	if err != nil {
		s.logger.Printf("retention: session prune failed: %v", err)
	} else if removed > 0 {
		s.logger.Printf("retention: pruned %d expired sessions", removed)
	}

	removed, err = s.clickRepo.DeleteOlderThan(ctx, now.Add(-s.clickRetention))
	if err != nil {
		s.logger.Printf("retention: click prune failed: %v", err)
	} else if removed > 0 {
		s.logger.Printf("retention: pruned %d click events", removed)
	}
}
