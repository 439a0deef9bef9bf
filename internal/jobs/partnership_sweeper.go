package jobs

import (
	"context"
	"log"
	"time"

	"pairup/internal/services"
)

// PartnershipSweeper completes partnerships whose term has run out, so
// month-old pairings close without waiting for an operator.
type PartnershipSweeper struct {
	partnershipService *services.PartnershipService
	interval           time.Duration
	stopChan           chan struct{}
}

// NewPartnershipSweeper creates a new partnership sweeper job
func NewPartnershipSweeper(partnershipService *services.PartnershipService, interval time.Duration) *PartnershipSweeper {
	return &PartnershipSweeper{
		partnershipService: partnershipService,
		interval:           interval,
		stopChan:           make(chan struct{}),
	}
}

// Start begins the sweep loop
func (ps *PartnershipSweeper) Start() {
	log.Printf("[PartnershipSweeper] Starting sweep job (interval: %v)", ps.interval)

	ps.sweep()

	ticker := time.NewTicker(ps.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ps.sweep()
		case <-ps.stopChan:
			log.Println("[PartnershipSweeper] Stopping sweep job")
			return
		}
	}
}

// Stop stops the sweep loop
func (ps *PartnershipSweeper) Stop() {
	close(ps.stopChan)
}

func (ps *PartnershipSweeper) sweep() {
	ctx := context.Background()

	completed, err := ps.partnershipService.CompleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("[PartnershipSweeper] Sweep failed: %v", err)
		return
	}

	if completed > 0 {
		log.Printf("[PartnershipSweeper] Completed %d expired partnerships", completed)
	}
}
