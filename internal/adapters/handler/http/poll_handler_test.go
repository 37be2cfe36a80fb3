package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

type pollServiceStub struct {
	createFn func(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error)
	getFn    func(ctx context.Context, id int64) (*domain.Poll, error)
	listFn   func(ctx context.Context) ([]ports.PollListItem, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *pollServiceStub) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	return s.createFn(ctx, input)
}

func (s *pollServiceStub) Get(ctx context.Context, id int64) (*domain.Poll, error) {
	return s.getFn(ctx, id)
}

func (s *pollServiceStub) List(ctx context.Context) ([]ports.PollListItem, error) {
	return s.listFn(ctx)
}

func (s *pollServiceStub) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func testRouter(svc ports.PollService) http.Handler {
	r := chi.NewRouter()
	h := NewPollHandler(svc)
	r.Post("/polls", h.CreatePoll)
	r.Get("/polls", h.ListPolls)
	r.Delete("/polls/{id}", h.DeletePoll)
	return r
}

func TestCreatePollSuccess(t *testing.T) {
	svc := &pollServiceStub{
		createFn: func(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
			assert.Equal(t, "g1", input.GuildID)
			assert.Equal(t, 60, input.DurationMinutes)
			assert.Len(t, input.Options, 2)
			return &domain.Poll{ID: 7}, nil
		},
	}

	body := `{
		"guild_id": "g1",
		"channel_id": "c1",
		"question": "Pizza or tacos?",
		"options": [{"label": "Pizza", "emoji": "🍕"}, {"label": "Tacos"}],
		"allow_everyone": true,
		"duration_minutes": 60
	}`
	req := httptest.NewRequest(http.MethodPost, "/polls", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool  `json:"success"`
		PollID  int64 `json:"poll_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(7), resp.PollID)
}

func TestCreatePollBadRequests(t *testing.T) {
	svc := &pollServiceStub{
		createFn: func(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
			return nil, fmt.Errorf("%w: at least two options are required", domain.ErrValidation)
		},
	}

	cases := map[string]string{
		"malformed json":    `{"guild_id": `,
		"negative duration": `{"guild_id": "g1", "channel_id": "c1", "question": "q", "options": [{"label":"a"},{"label":"b"}], "duration_minutes": -5}`,
		"validation error":  `{"guild_id": "g1", "channel_id": "c1", "question": "q", "options": [{"label":"a"}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/polls", strings.NewReader(body))
			rec := httptest.NewRecorder()
			testRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestCreatePollDurationGuard(t *testing.T) {
	var created bool
	svc := &pollServiceStub{
		createFn: func(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
			created = true
			assert.Zero(t, input.DurationMinutes)
			return &domain.Poll{ID: 1}, nil
		},
	}

	// Zero means no deadline and is accepted.
	body := `{"guild_id": "g1", "channel_id": "c1", "question": "q", "options": [{"label":"a"},{"label":"b"}], "duration_minutes": 0}`
	req := httptest.NewRequest(http.MethodPost, "/polls", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, created)

	body = `{"guild_id": "g1", "channel_id": "c1", "question": "q", "options": [{"label":"a"},{"label":"b"}], "duration_minutes": -1}`
	req = httptest.NewRequest(http.MethodPost, "/polls", strings.NewReader(body))
	rec = httptest.NewRecorder()
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must not be negative")
}

func TestCreatePollInternalError(t *testing.T) {
	svc := &pollServiceStub{
		createFn: func(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
			return nil, errors.New("boom")
		},
	}

	body := `{"guild_id": "g1", "channel_id": "c1", "question": "q", "options": [{"label":"a"},{"label":"b"}]}`
	req := httptest.NewRequest(http.MethodPost, "/polls", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListPolls(t *testing.T) {
	svc := &pollServiceStub{
		listFn: func(ctx context.Context) ([]ports.PollListItem, error) {
			return []ports.PollListItem{
				{ID: 1, GuildName: "Guild One", ChannelName: "#general", Status: domain.PollStatusOpen},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/polls", nil)
	rec := httptest.NewRecorder()
	testRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []ports.PollListItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Guild One", items[0].GuildName)
}

func TestDeletePoll(t *testing.T) {
	cases := []struct {
		name      string
		path      string
		deleteErr error
		want      int
	}{
		{"success", "/polls/3", nil, http.StatusOK},
		{"non-integer id", "/polls/abc", nil, http.StatusBadRequest},
		{"negative id", "/polls/-1", nil, http.StatusBadRequest},
		{"not found", "/polls/3", domain.ErrPollNotFound, http.StatusNotFound},
		{"store failure", "/polls/3", errors.New("tx aborted"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &pollServiceStub{
				deleteFn: func(ctx context.Context, id int64) error {
					return tc.deleteErr
				},
			}

			req := httptest.NewRequest(http.MethodDelete, tc.path, nil)
			rec := httptest.NewRecorder()
			testRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
