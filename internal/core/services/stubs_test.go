package services

import (
	"context"
	"errors"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

// Function-field stubs so each test wires only what it exercises.

type pollRepoStub struct {
	saveFn                 func(ctx context.Context, poll *domain.Poll) error
	getByIDFn              func(ctx context.Context, id int64) (*domain.Poll, error)
	getAllFn               func(ctx context.Context) ([]*domain.Poll, error)
	setMessageIDFn         func(ctx context.Context, id int64, messageID string) error
	deleteFn               func(ctx context.Context, id int64) (bool, error)
	listOpenWithDeadlineFn func(ctx context.Context) ([]*domain.Poll, error)
	closeFn                func(ctx context.Context, id int64) (bool, error)
}

func (s *pollRepoStub) Save(ctx context.Context, poll *domain.Poll) error {
	return s.saveFn(ctx, poll)
}

func (s *pollRepoStub) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	if s.getByIDFn == nil {
		return nil, errStubNotWired
	}
	return s.getByIDFn(ctx, id)
}

func (s *pollRepoStub) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	return s.getAllFn(ctx)
}

func (s *pollRepoStub) SetMessageID(ctx context.Context, id int64, messageID string) error {
	if s.setMessageIDFn == nil {
		return nil
	}
	return s.setMessageIDFn(ctx, id, messageID)
}

func (s *pollRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *pollRepoStub) ListOpenWithDeadline(ctx context.Context) ([]*domain.Poll, error) {
	return s.listOpenWithDeadlineFn(ctx)
}

func (s *pollRepoStub) Close(ctx context.Context, id int64) (bool, error) {
	return s.closeFn(ctx, id)
}

type voteRepoStub struct {
	castFn func(ctx context.Context, pollID, optionID int64, userID string) error
}

func (s *voteRepoStub) Cast(ctx context.Context, pollID, optionID int64, userID string) error {
	return s.castFn(ctx, pollID, optionID, userID)
}

type messengerStub struct {
	listGuildsFn        func(ctx context.Context) ([]ports.Guild, error)
	listTextChannelsFn  func(ctx context.Context, guildID string) ([]ports.Channel, error)
	guildNameFn         func(ctx context.Context, guildID string) (string, error)
	channelNameFn       func(ctx context.Context, channelID string) (string, error)
	postPollMessageFn   func(ctx context.Context, channelID string, summary domain.Summary, allowEveryone bool) (string, error)
	updatePollMessageFn func(ctx context.Context, channelID, messageID string, summary domain.Summary) error
	deletePollMessageFn func(ctx context.Context, channelID, messageID string) error
}

var errStubNotWired = errors.New("not wired in this test")

func (s *messengerStub) ListGuilds(ctx context.Context) ([]ports.Guild, error) {
	return s.listGuildsFn(ctx)
}

func (s *messengerStub) ListTextChannels(ctx context.Context, guildID string) ([]ports.Channel, error) {
	return s.listTextChannelsFn(ctx, guildID)
}

func (s *messengerStub) GuildName(ctx context.Context, guildID string) (string, error) {
	if s.guildNameFn == nil {
		return "", errStubNotWired
	}
	return s.guildNameFn(ctx, guildID)
}

func (s *messengerStub) ChannelName(ctx context.Context, channelID string) (string, error) {
	if s.channelNameFn == nil {
		return "", errStubNotWired
	}
	return s.channelNameFn(ctx, channelID)
}

func (s *messengerStub) PostPollMessage(ctx context.Context, channelID string, summary domain.Summary, allowEveryone bool) (string, error) {
	if s.postPollMessageFn == nil {
		return "msg-1", nil
	}
	return s.postPollMessageFn(ctx, channelID, summary, allowEveryone)
}

func (s *messengerStub) UpdatePollMessage(ctx context.Context, channelID, messageID string, summary domain.Summary) error {
	if s.updatePollMessageFn == nil {
		return nil
	}
	return s.updatePollMessageFn(ctx, channelID, messageID, summary)
}

func (s *messengerStub) DeletePollMessage(ctx context.Context, channelID, messageID string) error {
	if s.deletePollMessageFn == nil {
		return nil
	}
	return s.deletePollMessageFn(ctx, channelID, messageID)
}
