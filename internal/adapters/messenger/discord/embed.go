package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/discord-polls/api/internal/core/domain"
)

const (
	colorOpen   = 0xff6a00
	colorClosed = 0xff3c00

	// Discord allows at most five buttons per action row.
	buttonsPerRow = 5
)

var medals = []string{"🥇", "🥈", "🥉"}

// buildEmbed turns a Summary into the public poll embed. Open polls show
// options in ballot order; closed polls arrive pre-ranked and get medals
// plus a bolded winner.
func buildEmbed(summary domain.Summary) *discordgo.MessageEmbed {
	closed := summary.Status == domain.PollStatusClosed

	fields := make([]*discordgo.MessageEmbedField, 0, len(summary.Options))
	for i, opt := range summary.Options {
		name := opt.Label
		if closed && i == 0 && summary.TotalVotes > 0 {
			name = "**" + name + "**"
		}
		if opt.Emoji != nil {
			name = *opt.Emoji + " " + name
		}
		if closed {
			medal := "•"
			if i < len(medals) {
				medal = medals[i]
			}
			name = medal + " " + name
		}

		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("%s\n**%d** votes (%.1f%%)", opt.Bar, opt.Votes, opt.Percent),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🗳️ Poll",
		Description: fmt.Sprintf("**%s**", summary.Question),
		Color:       colorOpen,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText(summary)},
	}
	if closed {
		embed.Title = "🏁 Poll Results"
		embed.Color = colorClosed
	}

	return embed
}

func footerText(summary domain.Summary) string {
	if summary.Status == domain.PollStatusClosed {
		return "🔒 Voting closed"
	}
	if summary.EndAt == nil {
		return "🕓 Ends: never"
	}
	return "🕓 Ends: " + summary.EndAt.UTC().Format(time.RFC1123)
}

// buildVoteButtons returns one button per option, chunked into action rows,
// or nil for closed polls.
func buildVoteButtons(summary domain.Summary) []discordgo.MessageComponent {
	if summary.Status != domain.PollStatusOpen {
		return nil
	}

	var rows []discordgo.MessageComponent
	var row discordgo.ActionsRow
	for _, opt := range summary.Options {
		button := discordgo.Button{
			Label:    opt.Label,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("poll:%d:%d", summary.PollID, opt.OptionID),
		}
		if opt.Emoji != nil {
			button.Emoji = &discordgo.ComponentEmoji{Name: *opt.Emoji}
		}

		row.Components = append(row.Components, button)
		if len(row.Components) == buttonsPerRow {
			rows = append(rows, row)
			row = discordgo.ActionsRow{}
		}
	}
	if len(row.Components) > 0 {
		rows = append(rows, row)
	}

	return rows
}
