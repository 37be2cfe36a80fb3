package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

func NewHandler(apiKey string, pollHandler *PollHandler, guildHandler *GuildHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(rate.Limit(10), 20))
		r.Use(RequireAPIKey(apiKey))

		r.Get("/guilds", guildHandler.ListGuilds)
		r.Get("/channels", guildHandler.ListChannels)

		r.Route("/polls", func(r chi.Router) {
			r.Post("/", pollHandler.CreatePoll)
			r.Get("/", pollHandler.ListPolls)
			r.Delete("/{id}", pollHandler.DeletePoll)
		})
	})

	return r
}
