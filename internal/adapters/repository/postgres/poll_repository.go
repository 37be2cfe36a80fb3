package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (guild_id, channel_id, question, allow_everyone, created_by, status, end_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, queryPoll,
		poll.GuildID, poll.ChannelID, poll.Question, poll.AllowEveryone,
		poll.CreatedBy, poll.Status, poll.EndAt,
	).Scan(&poll.ID, &poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (poll_id, label, emoji)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i := range poll.Options {
		opt := &poll.Options[i]
		opt.PollID = poll.ID
		if err := stmt.QueryRowContext(ctx, opt.PollID, opt.Label, opt.Emoji).Scan(&opt.ID); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, guild_id, channel_id, question, allow_everyone, created_by, status, end_at, message_id, created_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.GuildID, &poll.ChannelID, &poll.Question, &poll.AllowEveryone,
		&poll.CreatedBy, &poll.Status, &poll.EndAt, &poll.MessageID, &poll.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, guild_id, channel_id, question, allow_everyone, created_by, status, end_at, message_id, created_at
		FROM polls
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) SetMessageID(ctx context.Context, id int64, messageID string) error {
	query := `UPDATE polls SET message_id = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, messageID, id); err != nil {
		return fmt.Errorf("failed to set message id: %w", err)
	}
	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Dependency order: votes reference options, options reference the poll.
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_votes WHERE poll_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete options: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

func (r *pollRepository) ListOpenWithDeadline(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, guild_id, channel_id, question, allow_everyone, created_by, status, end_at, message_id, created_at
		FROM polls
		WHERE status = 'open' AND end_at IS NOT NULL
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) Close(ctx context.Context, id int64) (bool, error) {
	// Check-and-flip in one statement: only the caller that actually
	// transitions open->closed sees affected=1.
	query := `UPDATE polls SET status = 'closed' WHERE id = $1 AND status = 'open'`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to close poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read close result: %w", err)
	}
	return affected > 0, nil
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.GuildID, &poll.ChannelID, &poll.Question, &poll.AllowEveryone,
			&poll.CreatedBy, &poll.Status, &poll.EndAt, &poll.MessageID, &poll.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID int64) ([]domain.PollOption, error) {
	// Insertion order doubles as display order.
	queryOptions := `
		SELECT id, poll_id, label, emoji, vote_count
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Label, &opt.Emoji, &opt.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
