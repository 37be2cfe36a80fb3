package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

// sweepTimeout bounds a single sweep so a stuck transaction or messenger
// call cannot wedge the scheduler.
const sweepTimeout = 30 * time.Second

// LifecycleService closes polls whose deadline has passed. A sweep closes
// each expired poll at most once: the store's check-and-flip decides which
// sweep owns the closing announcement.
type LifecycleService struct {
	repo      ports.PollRepository
	messenger ports.Messenger
	now       func() time.Time
}

func NewLifecycleService(repo ports.PollRepository, messenger ports.Messenger) *LifecycleService {
	return &LifecycleService{
		repo:      repo,
		messenger: messenger,
		now:       time.Now,
	}
}

// Run sweeps once immediately, then on every tick until the context ends.
// Sweeps run serially on this goroutine, so they never overlap; a sweep
// slower than the interval simply drops ticks.
func (s *LifecycleService) Run(ctx context.Context, interval time.Duration) {
	s.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *LifecycleService) sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	if err := s.Sweep(ctx); err != nil {
		log.Printf("poll sweep failed: %v", err)
	}
}

// Sweep closes every expired open poll and announces the final results.
// Closing is the durable action; a failed announcement is logged and the
// closure stands.
func (s *LifecycleService) Sweep(ctx context.Context) error {
	polls, err := s.repo.ListOpenWithDeadline(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open polls: %w", err)
	}

	now := s.now().UTC()

	for _, poll := range polls {
		if !poll.Expired(now) {
			continue
		}

		closedNow, err := s.repo.Close(ctx, poll.ID)
		if err != nil {
			log.Printf("poll %d: close failed: %v", poll.ID, err)
			continue
		}
		if !closedNow {
			// Another sweep or a manual action got there first.
			continue
		}

		log.Printf("poll %d closed at deadline %s", poll.ID, poll.EndAt.UTC().Format(time.RFC3339))

		if poll.MessageID == nil {
			continue
		}

		// Votes may have committed between the listing and the flip, so the
		// listed counts can be stale. Re-read the poll and announce those.
		final, err := s.repo.GetByID(ctx, poll.ID)
		if err != nil {
			log.Printf("poll %d: closed but reload for announcement failed: %v", poll.ID, err)
			continue
		}

		final.Status = domain.PollStatusClosed
		summary := RenderSummary(final)
		if err := s.messenger.UpdatePollMessage(ctx, final.ChannelID, *poll.MessageID, summary); err != nil {
			log.Printf("poll %d: closed but message update failed: %v", poll.ID, err)
		}
	}

	return nil
}
