package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID       uuid.UUID `json:"id"`
	PollID   int64     `json:"poll_id"`
	OptionID int64     `json:"option_id"`
	UserID   string    `json:"user_id"`
	VotedAt  time.Time `json:"voted_at"`
}
