package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

type pollService struct {
	repo      ports.PollRepository
	messenger ports.Messenger
}

func NewPollService(repo ports.PollRepository, messenger ports.Messenger) ports.PollService {
	return &pollService{
		repo:      repo,
		messenger: messenger,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if input.GuildID == "" || input.ChannelID == "" {
		return nil, fmt.Errorf("%w: guild_id and channel_id are required", domain.ErrValidation)
	}
	if input.Question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}

	now := time.Now().UTC()

	poll := &domain.Poll{
		GuildID:       input.GuildID,
		ChannelID:     input.ChannelID,
		Question:      input.Question,
		AllowEveryone: input.AllowEveryone,
		Status:        domain.PollStatusOpen,
		CreatedAt:     now,
	}

	if input.CreatedBy != "" {
		creator := input.CreatedBy
		poll.CreatedBy = &creator
	}

	// The deadline is fixed at creation in UTC and never re-derived.
	if input.DurationMinutes > 0 {
		endAt := now.Add(time.Duration(input.DurationMinutes) * time.Minute)
		poll.EndAt = &endAt
	}

	for _, opt := range input.Options {
		if opt.Label == "" {
			continue
		}

		label := opt.Label
		if len([]rune(label)) > domain.MaxOptionLabelLength {
			label = string([]rune(label)[:domain.MaxOptionLabelLength])
		}

		option := domain.PollOption{Label: label}
		if opt.Emoji != "" {
			emoji := opt.Emoji
			option.Emoji = &emoji
		}
		poll.Options = append(poll.Options, option)
	}

	if len(poll.Options) < 2 {
		return nil, fmt.Errorf("%w: at least two options are required", domain.ErrValidation)
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	messageID, err := s.messenger.PostPollMessage(ctx, poll.ChannelID, RenderSummary(poll), poll.AllowEveryone)
	if err != nil {
		// The poll is already durable; the caller can retry the posting
		// path or delete the poll.
		return nil, fmt.Errorf("poll %d stored but message post failed: %w", poll.ID, err)
	}

	if err := s.repo.SetMessageID(ctx, poll.ID, messageID); err != nil {
		return nil, err
	}
	poll.MessageID = &messageID

	return poll, nil
}

func (s *pollService) Get(ctx context.Context, id int64) (*domain.Poll, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pollService) List(ctx context.Context) ([]ports.PollListItem, error) {
	polls, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ports.PollListItem, 0, len(polls))
	for _, poll := range polls {
		item := ports.PollListItem{
			ID:          poll.ID,
			GuildID:     poll.GuildID,
			GuildName:   poll.GuildID,
			ChannelID:   poll.ChannelID,
			ChannelName: poll.ChannelID,
			Question:    poll.Question,
			Status:      poll.Status,
			CreatedBy:   poll.CreatedBy,
		}

		if poll.EndAt != nil {
			endAt := poll.EndAt.UTC().Format(time.RFC3339)
			item.EndAt = &endAt
		}

		// Name resolution is best-effort; raw ids stay in place on failure.
		if name, err := s.messenger.GuildName(ctx, poll.GuildID); err == nil {
			item.GuildName = name
		}
		if name, err := s.messenger.ChannelName(ctx, poll.ChannelID); err == nil {
			item.ChannelName = name
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *pollService) Delete(ctx context.Context, id int64) error {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Best effort only: a missing or undeletable message must not keep the
	// poll alive in the store.
	if poll.MessageID != nil {
		if err := s.messenger.DeletePollMessage(ctx, poll.ChannelID, *poll.MessageID); err != nil {
			log.Printf("poll %d: could not delete message %s: %v", id, *poll.MessageID, err)
		}
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrPollNotFound
	}

	return nil
}
