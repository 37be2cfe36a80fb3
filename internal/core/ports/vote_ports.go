package ports

import "context"

type VoteRepository interface {
	// Cast applies a vote in a single transaction: first vote inserts,
	// re-voting the same option is a no-op, a different option re-points
	// the vote and moves the counters. Rejections surface as
	// domain.ErrPollClosed, domain.ErrPollNotFound or
	// domain.ErrInvalidOption; any error leaves the store untouched.
	Cast(ctx context.Context, pollID, optionID int64, userID string) error
}

type VoteInput struct {
	PollID   int64
	OptionID int64
	UserID   string
}

type VoteResult struct {
	Accepted bool
}

type VoteService interface {
	Cast(ctx context.Context, input VoteInput) (VoteResult, error)
}
