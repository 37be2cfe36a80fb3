package services

import (
	"context"
	"errors"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

type voteService struct {
	voteRepo ports.VoteRepository
}

func NewVoteService(voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		voteRepo: voteRepo,
	}
}

// Cast records a vote. A closed poll, an unknown poll or an option that does
// not belong to the poll all yield Accepted=false without an error: those
// are user-visible conditions, not failures. Storage errors are returned
// as-is and imply a full rollback.
func (s *voteService) Cast(ctx context.Context, input ports.VoteInput) (ports.VoteResult, error) {
	err := s.voteRepo.Cast(ctx, input.PollID, input.OptionID, input.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrPollClosed) ||
			errors.Is(err, domain.ErrPollNotFound) ||
			errors.Is(err, domain.ErrInvalidOption) {
			return ports.VoteResult{Accepted: false}, nil
		}
		return ports.VoteResult{}, err
	}

	return ports.VoteResult{Accepted: true}, nil
}
