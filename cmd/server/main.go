package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/discord-polls/api/internal/adapters/handler/http"
	"github.com/discord-polls/api/internal/adapters/messenger/discord"
	"github.com/discord-polls/api/internal/adapters/repository/postgres"
	"github.com/discord-polls/api/internal/core/services"
)

const sweepInterval = 60 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	session, err := discordgo.New("Bot " + os.Getenv("DISCORD_TOKEN"))
	if err != nil {
		log.Fatal(err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	messenger := discord.NewMessenger(session)
	pollService := services.NewPollService(pollRepo, messenger)
	voteService := services.NewVoteService(voteRepo)
	lifecycle := services.NewLifecycleService(pollRepo, messenger)

	discord.NewInteractionHandler(voteService, pollService, messenger).Register(session)

	if err := session.Open(); err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go lifecycle.Run(ctx, sweepInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	handler := http.NewHandler(os.Getenv("API_KEY"), http.NewPollHandler(pollService), http.NewGuildHandler(messenger))
	server := &stdhttp.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("API listening on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	user := os.Getenv("POSTGRES_USER")
	password := os.Getenv("POSTGRES_PASSWORD")
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	dbName := os.Getenv("POSTGRES_DB")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}
