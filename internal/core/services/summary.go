package services

import (
	"math"
	"sort"
	"strings"

	"github.com/discord-polls/api/internal/core/domain"
)

// barSegments is the resolution of the proportional gauge.
const barSegments = 20

const (
	barFilled = "▰"
	barEmpty  = "▱"
)

// RenderSummary computes a presentation-ready view of a poll. Percentages
// are count*100/total rounded to one decimal (0 when nobody voted). Open
// polls keep insertion order; closed polls are ranked by votes descending,
// ties kept in insertion order. Pure function, safe to call anywhere.
func RenderSummary(p *domain.Poll) domain.Summary {
	total := p.TotalVotes()

	options := make([]domain.SummaryOption, 0, len(p.Options))
	for _, opt := range p.Options {
		percent := 0.0
		if total > 0 {
			percent = math.Round(float64(opt.VoteCount)*1000/float64(total)) / 10
		}

		options = append(options, domain.SummaryOption{
			OptionID: opt.ID,
			Label:    opt.Label,
			Emoji:    opt.Emoji,
			Votes:    opt.VoteCount,
			Percent:  percent,
			Bar:      renderBar(percent),
		})
	}

	if p.Status == domain.PollStatusClosed {
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].Votes > options[j].Votes
		})
	}

	return domain.Summary{
		PollID:     p.ID,
		Question:   p.Question,
		Status:     p.Status,
		EndAt:      p.EndAt,
		TotalVotes: total,
		Options:    options,
	}
}

func renderBar(percent float64) string {
	filled := int(math.Round(percent / 100 * barSegments))
	if filled < 0 {
		filled = 0
	}
	if filled > barSegments {
		filled = barSegments
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barSegments-filled)
}
