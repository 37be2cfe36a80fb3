package domain

import "time"

// Summary is a presentation-ready view of a poll: per-option percentages,
// proportional bars and (for closed polls) the final ranking. It carries no
// rendering-platform details; the messenger adapter turns it into a message.
type Summary struct {
	PollID     int64
	Question   string
	Status     PollStatus
	EndAt      *time.Time
	TotalVotes int64
	Options    []SummaryOption
}

// SummaryOption holds one option in display order. Percent is rounded to one
// decimal and Bar is a fixed-resolution proportional gauge.
type SummaryOption struct {
	OptionID int64
	Label    string
	Emoji    *string
	Votes    int64
	Percent  float64
	Bar      string
}
