package ports

import (
	"context"

	"github.com/discord-polls/api/internal/core/domain"
)

type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Messenger is the chat-platform collaborator. The store is the source of
// truth; every messenger failure after a committed mutation is advisory.
type Messenger interface {
	ListGuilds(ctx context.Context) ([]Guild, error)
	// ListTextChannels returns the text-capable channels of a guild, or
	// domain.ErrGuildNotFound.
	ListTextChannels(ctx context.Context, guildID string) ([]Channel, error)
	GuildName(ctx context.Context, guildID string) (string, error)
	ChannelName(ctx context.Context, channelID string) (string, error)
	// PostPollMessage publishes the summary with one vote button per
	// option and returns the platform message id.
	PostPollMessage(ctx context.Context, channelID string, summary domain.Summary, allowEveryone bool) (string, error)
	UpdatePollMessage(ctx context.Context, channelID, messageID string, summary domain.Summary) error
	DeletePollMessage(ctx context.Context, channelID, messageID string) error
}
