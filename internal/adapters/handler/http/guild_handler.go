package http

import (
	"errors"
	"net/http"

	"github.com/discord-polls/api/internal/core/domain"
	"github.com/discord-polls/api/internal/core/ports"
)

// GuildHandler proxies guild and channel listings from the messenger so the
// admin front-end can offer pickers.
type GuildHandler struct {
	messenger ports.Messenger
}

func NewGuildHandler(messenger ports.Messenger) *GuildHandler {
	return &GuildHandler{
		messenger: messenger,
	}
}

func (h *GuildHandler) ListGuilds(w http.ResponseWriter, r *http.Request) {
	guilds, err := h.messenger.ListGuilds(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, guilds)
}

func (h *GuildHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guild_id")
	if guildID == "" {
		writeError(w, http.StatusBadRequest, "Missing guild_id")
		return
	}

	channels, err := h.messenger.ListTextChannels(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, domain.ErrGuildNotFound) {
			writeError(w, http.StatusNotFound, "Guild not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, channels)
}
