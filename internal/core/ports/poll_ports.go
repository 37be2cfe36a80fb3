package ports

import (
	"context"

	"github.com/discord-polls/api/internal/core/domain"
)

type PollRepository interface {
	// Save inserts the poll and all of its options as one transaction.
	Save(ctx context.Context, poll *domain.Poll) error
	// GetByID returns the poll with options in insertion order, or
	// domain.ErrPollNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	SetMessageID(ctx context.Context, id int64, messageID string) error
	// Delete cascades votes, options and the poll itself in one
	// transaction. It reports false when nothing was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	// ListOpenWithDeadline returns every open poll that has a deadline set.
	ListOpenWithDeadline(ctx context.Context) ([]*domain.Poll, error)
	// Close flips an open poll to closed and reports whether this call did
	// the flip. A poll already closed yields false with no error.
	Close(ctx context.Context, id int64) (bool, error)
}

type CreateOptionInput struct {
	Label string
	Emoji string
}

type CreatePollInput struct {
	GuildID         string
	ChannelID       string
	Question        string
	Options         []CreateOptionInput
	AllowEveryone   bool
	CreatedBy       string
	DurationMinutes int
}

// PollListItem is a poll enriched with display names resolved through the
// messenger; names fall back to the raw ids when resolution fails.
type PollListItem struct {
	ID          int64             `json:"id"`
	GuildID     string            `json:"guild_id"`
	GuildName   string            `json:"guild_name"`
	ChannelID   string            `json:"channel_id"`
	ChannelName string            `json:"channel_name"`
	Question    string            `json:"question"`
	Status      domain.PollStatus `json:"status"`
	EndAt       *string           `json:"end_at"`
	CreatedBy   *string           `json:"created_by"`
}

type PollService interface {
	// Create stores the poll, posts its message to the target channel and
	// records the resulting message id.
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	Get(ctx context.Context, id int64) (*domain.Poll, error)
	List(ctx context.Context) ([]PollListItem, error)
	// Delete removes the public message best-effort, then the poll and
	// everything it owns from the store.
	Delete(ctx context.Context, id int64) error
}
