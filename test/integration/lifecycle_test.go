package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discord-polls/api/internal/adapters/repository/postgres"
	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
	"github.com/discord-polls/api/internal/core/services"
)

// recordingMessenger counts announcements so the at-most-once guarantee is
// observable from the outside.
type recordingMessenger struct {
	mu        sync.Mutex
	announced []domain.Summary
}

func (m *recordingMessenger) ListGuilds(ctx context.Context) ([]ports.Guild, error) {
	return nil, nil
}

func (m *recordingMessenger) ListTextChannels(ctx context.Context, guildID string) ([]ports.Channel, error) {
	return nil, nil
}

func (m *recordingMessenger) GuildName(ctx context.Context, guildID string) (string, error) {
	return guildID, nil
}

func (m *recordingMessenger) ChannelName(ctx context.Context, channelID string) (string, error) {
	return channelID, nil
}

func (m *recordingMessenger) PostPollMessage(ctx context.Context, channelID string, summary domain.Summary, allowEveryone bool) (string, error) {
	return "msg-1", nil
}

func (m *recordingMessenger) UpdatePollMessage(ctx context.Context, channelID, messageID string, summary domain.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announced = append(m.announced, summary)
	return nil
}

func (m *recordingMessenger) DeletePollMessage(ctx context.Context, channelID, messageID string) error {
	return nil
}

func TestSweepAgainstRealStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupTestDB(t)
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	ctx := context.Background()

	poll := createTestPoll(t, pollRepo, "A", "B")
	require.NoError(t, pollRepo.SetMessageID(ctx, poll.ID, "msg-1"))
	_, err := db.Exec(`UPDATE polls SET end_at = NOW() - INTERVAL '1 minute' WHERE id = $1`, poll.ID)
	require.NoError(t, err)

	require.NoError(t, voteRepo.Cast(ctx, poll.ID, poll.Options[1].ID, "u1"))

	messenger := &recordingMessenger{}
	lifecycle := services.NewLifecycleService(pollRepo, messenger)

	require.NoError(t, lifecycle.Sweep(ctx))

	loaded, err := pollRepo.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PollStatusClosed, loaded.Status)

	require.Len(t, messenger.announced, 1)
	assert.Equal(t, domain.PollStatusClosed, messenger.announced[0].Status)
	// Winner first in the final ranking.
	assert.Equal(t, poll.Options[1].ID, messenger.announced[0].Options[0].OptionID)

	// A second sweep finds nothing to do.
	require.NoError(t, lifecycle.Sweep(ctx))
	assert.Len(t, messenger.announced, 1)

	// And the closed poll no longer takes votes.
	err = voteRepo.Cast(ctx, poll.ID, poll.Options[0].ID, "u2")
	require.ErrorIs(t, err, domain.ErrPollClosed)
}
