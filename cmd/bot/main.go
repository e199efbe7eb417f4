package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/downvot/downvot/internal/bot"
	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/dlservice"
	"github.com/downvot/downvot/internal/server"
	"github.com/downvot/downvot/internal/session"
)

func main() {
	godotenv.Load()
	config.Load()

	if config.EnvMode == "development" {
		log.SetLevel(log.DebugLevel)
	}

	registry, err := config.LoadRegistry(config.UsersFile)
	if err != nil {
		log.Fatalf("failed to load user registry: %v", err)
	}

	store := session.NewStore()
	dl := dlservice.New(config.APIBaseURL)

	b, err := bot.New(config.BotToken, store, dl, registry)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	srv := server.New(store, dl)
	go func() {
		log.Infof("status api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("status api stopped: %v", err)
		}
	}()

	go b.Start()
	log.Info("bot is running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	b.Stop()
	srv.Close()
}
