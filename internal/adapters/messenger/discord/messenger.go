package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

// Messenger implements ports.Messenger on top of a discordgo session. The
// session's gateway connection keeps the guild cache warm; REST calls carry
// the request context.
type Messenger struct {
	session *discordgo.Session
}

func NewMessenger(session *discordgo.Session) *Messenger {
	return &Messenger{
		session: session,
	}
}

func (m *Messenger) ListGuilds(ctx context.Context) ([]ports.Guild, error) {
	guilds := make([]ports.Guild, 0, len(m.session.State.Guilds))
	for _, g := range m.session.State.Guilds {
		guilds = append(guilds, ports.Guild{ID: g.ID, Name: g.Name})
	}
	return guilds, nil
}

func (m *Messenger) ListTextChannels(ctx context.Context, guildID string) ([]ports.Channel, error) {
	channels, err := m.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrGuildNotFound
		}
		return nil, fmt.Errorf("failed to fetch channels for guild %s: %w", guildID, err)
	}

	result := make([]ports.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText && ch.Type != discordgo.ChannelTypeGuildNews {
			continue
		}
		result = append(result, ports.Channel{ID: ch.ID, Name: "#" + ch.Name})
	}
	return result, nil
}

func (m *Messenger) GuildName(ctx context.Context, guildID string) (string, error) {
	if g, err := m.session.State.Guild(guildID); err == nil {
		return g.Name, nil
	}
	g, err := m.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	return g.Name, nil
}

func (m *Messenger) ChannelName(ctx context.Context, channelID string) (string, error) {
	if ch, err := m.session.State.Channel(channelID); err == nil {
		return "#" + ch.Name, nil
	}
	ch, err := m.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	return "#" + ch.Name, nil
}

func (m *Messenger) PostPollMessage(ctx context.Context, channelID string, summary domain.Summary, allowEveryone bool) (string, error) {
	send := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{buildEmbed(summary)},
		Components: buildVoteButtons(summary),
	}
	if allowEveryone {
		send.Content = "@everyone"
	}

	msg, err := m.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to post poll message: %w", err)
	}
	return msg.ID, nil
}

func (m *Messenger) UpdatePollMessage(ctx context.Context, channelID, messageID string, summary domain.Summary) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	embeds := []*discordgo.MessageEmbed{buildEmbed(summary)}
	edit.Embeds = &embeds

	// Closed polls lose their buttons.
	components := buildVoteButtons(summary)
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	edit.Components = &components

	if _, err := m.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to update poll message: %w", err)
	}
	return nil
}

func (m *Messenger) DeletePollMessage(ctx context.Context, channelID, messageID string) error {
	if err := m.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete poll message: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) &&
		restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusNotFound
}
