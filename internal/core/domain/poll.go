package domain

import "time"

type PollStatus string

const (
	PollStatusOpen   PollStatus = "open"
	PollStatusClosed PollStatus = "closed"
)

// MaxOptionLabelLength is the longest label Discord renders on a button.
const MaxOptionLabelLength = 80

type Poll struct {
	ID            int64        `json:"id"`
	GuildID       string       `json:"guild_id"`
	ChannelID     string       `json:"channel_id"`
	Question      string       `json:"question"`
	AllowEveryone bool         `json:"allow_everyone"`
	CreatedBy     *string      `json:"created_by,omitempty"`
	Status        PollStatus   `json:"status"`
	EndAt         *time.Time   `json:"end_at,omitempty"`
	MessageID     *string      `json:"message_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Options       []PollOption `json:"options"`
}

type PollOption struct {
	ID        int64   `json:"id"`
	PollID    int64   `json:"poll_id"`
	Label     string  `json:"label"`
	Emoji     *string `json:"emoji,omitempty"`
	VoteCount int64   `json:"vote_count"`
}

func (p *Poll) IsOpen() bool {
	return p.Status == PollStatusOpen
}

// Expired reports whether the poll's deadline has passed at the given
// instant. Polls without a deadline never expire.
func (p *Poll) Expired(now time.Time) bool {
	return p.EndAt != nil && !now.Before(*p.EndAt)
}

// TotalVotes sums the counters of every option.
func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, opt := range p.Options {
		total += opt.VoteCount
	}
	return total
}
