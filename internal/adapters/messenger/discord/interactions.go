package discord

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/discord-polls/api/internal/core/ports"
	"github.com/discord-polls/api/internal/core/services"
)

const interactionTimeout = 10 * time.Second

// customIDPrefix tags the vote buttons this handler owns; other components
// pass through untouched.
const customIDPrefix = "poll:"

// InteractionHandler dispatches button clicks into the vote ledger and
// refreshes the public message with the new tallies.
type InteractionHandler struct {
	votes     ports.VoteService
	polls     ports.PollService
	messenger ports.Messenger
}

func NewInteractionHandler(votes ports.VoteService, polls ports.PollService, messenger ports.Messenger) *InteractionHandler {
	return &InteractionHandler{
		votes:     votes,
		polls:     polls,
		messenger: messenger,
	}
}

func (h *InteractionHandler) Register(session *discordgo.Session) {
	session.AddHandler(h.handle)
}

func (h *InteractionHandler) handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, customIDPrefix) {
		return
	}

	pollID, optionID, ok := parseCustomID(customID)
	if !ok {
		log.Printf("ignoring malformed poll button id %q", customID)
		return
	}

	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	result, err := h.votes.Cast(ctx, ports.VoteInput{
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	})
	if err != nil {
		log.Printf("poll %d: vote by %s failed: %v", pollID, userID, err)
		h.replyEphemeral(s, i, "⚠️ Something went wrong, please try again.")
		return
	}
	if !result.Accepted {
		h.replyEphemeral(s, i, "🔒 This poll is closed.")
		return
	}

	h.replyEphemeral(s, i, "✅ Your vote has been recorded.")

	poll, err := h.polls.Get(ctx, pollID)
	if err != nil {
		log.Printf("poll %d: reload after vote failed: %v", pollID, err)
		return
	}
	if poll.MessageID == nil {
		return
	}

	if err := h.messenger.UpdatePollMessage(ctx, poll.ChannelID, *poll.MessageID, services.RenderSummary(poll)); err != nil {
		// The vote is committed; a stale message heals on the next vote.
		log.Printf("poll %d: message refresh failed: %v", pollID, err)
	}
}

func (h *InteractionHandler) replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("failed to answer interaction: %v", err)
	}
}

func parseCustomID(customID string) (pollID, optionID int64, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 {
		return 0, 0, false
	}

	pollID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	optionID, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return pollID, optionID, true
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
