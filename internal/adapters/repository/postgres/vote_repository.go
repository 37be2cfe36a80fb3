package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Cast runs the whole vote inside one transaction. The poll row is share-
// locked so distinct voters proceed concurrently while Close has to wait
// for in-flight votes; the voter's own vote row is exclusively locked so a
// voter racing themselves serializes. Counter updates are true in-database
// increments, never read-modify-write at this layer.
func (r *voteRepository) Cast(ctx context.Context, pollID, optionID int64, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status domain.PollStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM polls WHERE id = $1 FOR SHARE`, pollID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to read poll status: %w", err)
	}
	if status != domain.PollStatusOpen {
		return domain.ErrPollClosed
	}

	var (
		voteID        uuid.UUID
		currentOption int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, option_id FROM poll_votes WHERE poll_id = $1 AND user_id = $2 FOR UPDATE`,
		pollID, userID,
	).Scan(&voteID, &currentOption)

	switch {
	case err == sql.ErrNoRows:
		if err := incrementCount(ctx, tx, pollID, optionID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO poll_votes (id, poll_id, option_id, user_id) VALUES ($1, $2, $3, $4)`,
			uuid.New(), pollID, optionID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}

	case err != nil:
		return fmt.Errorf("failed to look up existing vote: %w", err)

	case currentOption == optionID:
		// Same choice again: accepted, nothing to change.
		return nil

	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE poll_options SET vote_count = vote_count - 1 WHERE id = $1`,
			currentOption,
		); err != nil {
			return fmt.Errorf("failed to decrement old option: %w", err)
		}
		if err := incrementCount(ctx, tx, pollID, optionID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE poll_votes SET option_id = $1, voted_at = NOW() WHERE id = $2`,
			optionID, voteID,
		); err != nil {
			return fmt.Errorf("failed to update vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// incrementCount bumps the option counter. The poll_id guard makes it
// double as the option-belongs-to-poll check: zero affected rows means the
// option does not exist on this poll.
func incrementCount(ctx context.Context, tx *sql.Tx, pollID, optionID int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE poll_options SET vote_count = vote_count + 1 WHERE id = $1 AND poll_id = $2`,
		optionID, pollID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment option count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read increment result: %w", err)
	}
	if affected == 0 {
		return domain.ErrInvalidOption
	}
	return nil
}
