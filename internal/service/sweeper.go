package service

import (
	"context"
	"log"
	"time"

	"surplus-marketplace/internal/clock"
	"surplus-marketplace/internal/repository"
)

// Sweeper periodically corrects stale listing statuses: active listings past
// their pickup window become expired, out-of-stock ones become sold_out. A
// failed tick is logged and swallowed; the next tick or a read-path self-heal
// catches up.
type Sweeper struct {
	listingRepo repository.ListingRepository
	clock       clock.Clock
	interval    time.Duration
}

func NewSweeper(listingRepo repository.ListingRepository, clk clock.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{
		listingRepo: listingRepo,
		clock:       clk,
		interval:    interval,
	}
}

// Start sweeps once immediately, then on every interval tick until the
// context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		s.Sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx)
			}
		}
	}()

	log.Println("Listing expiration sweeper started")
}

// Sweep runs one correction pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	expired, soldOut, err := s.listingRepo.SweepStatuses(ctx, now)
	if err != nil {
		log.Println("Error sweeping listings:", err)
		return
	}

	if expired > 0 {
		log.Printf("Expired %d listing(s) at %s", expired, now.Format(time.RFC3339))
	}
	if soldOut > 0 {
		log.Printf("Marked %d listing(s) sold out", soldOut)
	}
}
