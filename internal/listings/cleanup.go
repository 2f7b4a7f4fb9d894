package listings

import (
	"context"
	"log"
	"time"
)

// CleanupJob periodically removes incomplete and duplicate listings so the
// matcher only ever sees usable candidates.
type CleanupJob struct {
	service  Service
	interval time.Duration
}

func NewCleanupJob(service Service, interval time.Duration) *CleanupJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CleanupJob{service: service, interval: interval}
}

func (j *CleanupJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			summary, err := j.service.CleanupListings(runCtx)
			cancel()
			if err != nil {
				log.Printf("Listings cleanup failed: %v", err)
				continue
			}
			if summary.IncompleteRemoved > 0 || summary.DuplicatesRemoved > 0 {
				log.Printf("Listings cleanup removed %d incomplete and %d duplicate listings, %d remain",
					summary.IncompleteRemoved, summary.DuplicatesRemoved, summary.Remaining)
			}
		case <-ctx.Done():
			return
		}
	}
}
