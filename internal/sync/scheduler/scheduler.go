package scheduler

import (
	"context"
	"log"
	"time"

	"lifedash-backend/internal/sync/repository"
	"lifedash-backend/internal/sync/usecase"
)

// SyncScheduler re-syncs every scheduled binding on a fixed interval, a
// safety net under the webhook path
type SyncScheduler struct {
	bindingRepo repository.BindingRepository
	syncUsecase usecase.SyncUsecase
	interval    time.Duration
	stopChan    chan struct{}
}

// NewSyncScheduler creates a new scheduler
func NewSyncScheduler(bindingRepo repository.BindingRepository, syncUsecase usecase.SyncUsecase, interval time.Duration) *SyncScheduler {
	return &SyncScheduler{
		bindingRepo: bindingRepo,
		syncUsecase: syncUsecase,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start() {
	log.Printf("[SyncScheduler] Starting scheduled sync (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runScheduledSyncs()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runScheduledSyncs()
			case <-s.stopChan:
				log.Println("[SyncScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	close(s.stopChan)
}

// runScheduledSyncs walks the scheduled bindings one by one. Sequential on
// purpose, the source API rate limit is shared across all bindings.
func (s *SyncScheduler) runScheduledSyncs() {
	bindings, err := s.bindingRepo.ListScheduled()
	if err != nil {
		log.Printf("[SyncScheduler] Error listing scheduled bindings: %v", err)
		return
	}

	if len(bindings) == 0 {
		return
	}

	log.Printf("[SyncScheduler] Syncing %d scheduled bindings", len(bindings))

	for _, binding := range bindings {
		result, err := s.syncUsecase.SyncBinding(context.Background(), binding)
		if err != nil {
			log.Printf("[SyncScheduler] Sync of %s/%s failed: %v", binding.UserID, binding.DomainType, err)
			continue
		}
		if len(result.Errors) > 0 {
			log.Printf("[SyncScheduler] Sync of %s/%s finished with %d record errors", binding.UserID, binding.DomainType, len(result.Errors))
		}
	}
}
