package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, applyMigrations(db))

	return db
}

func createTestPoll(t *testing.T, repo ports.PollRepository, labels ...string) *domain.Poll {
	t.Helper()

	poll := &domain.Poll{
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		Question:  "Integration?",
		Status:    domain.PollStatusOpen,
	}
	for _, label := range labels {
		poll.Options = append(poll.Options, domain.PollOption{Label: label})
	}

	require.NoError(t, repo.Save(context.Background(), poll))
	return poll
}

// optionVoteState reads both sides of the counter invariant for one option.
func optionVoteState(t *testing.T, db *sql.DB, optionID int64) (counter, rows int64) {
	t.Helper()

	err := db.QueryRow(`SELECT vote_count FROM poll_options WHERE id = $1`, optionID).Scan(&counter)
	require.NoError(t, err)
	err = db.QueryRow(`SELECT COUNT(*) FROM poll_votes WHERE option_id = $1`, optionID).Scan(&rows)
	require.NoError(t, err)
	return counter, rows
}

// requireCountInvariant asserts vote_count == count(vote rows) for every
// option of the poll.
func requireCountInvariant(t *testing.T, db *sql.DB, poll *domain.Poll) {
	t.Helper()

	for _, opt := range poll.Options {
		counter, rows := optionVoteState(t, db, opt.ID)
		require.Equal(t, rows, counter, "option %d counter drifted from vote rows", opt.ID)
	}
}
