package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createOptionRequest struct {
	Label string `json:"label"`
	Emoji string `json:"emoji,omitempty"`
}

type createPollRequest struct {
	GuildID         string                `json:"guild_id"`
	ChannelID       string                `json:"channel_id"`
	Question        string                `json:"question"`
	Options         []createOptionRequest `json:"options"`
	AllowEveryone   bool                  `json:"allow_everyone"`
	DurationMinutes int                   `json:"duration_minutes,omitempty"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must not be negative")
		return
	}

	input := ports.CreatePollInput{
		GuildID:         req.GuildID,
		ChannelID:       req.ChannelID,
		Question:        req.Question,
		AllowEveryone:   req.AllowEveryone,
		CreatedBy:       "web",
		DurationMinutes: req.DurationMinutes,
	}
	for _, opt := range req.Options {
		input.Options = append(input.Options, ports.CreateOptionInput{Label: opt.Label, Emoji: opt.Emoji})
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"poll_id": poll.ID,
	})
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid poll ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			writeError(w, http.StatusNotFound, "Poll not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database delete failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
