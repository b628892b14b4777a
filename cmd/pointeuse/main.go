package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/maelvns/pointeuse/internal/api"
	"github.com/maelvns/pointeuse/internal/bot"
	"github.com/maelvns/pointeuse/internal/config"
	"github.com/maelvns/pointeuse/internal/sheet"
)

func main() {
	log.Println("🚀 Lancement du bot pointeuse...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Record store client
	store := sheet.NewClient(cfg.SheetURL)

	// Initialize Discord bot
	discordBot, err := bot.New(cfg, store)
	if err != nil {
		log.Fatalf("Failed to create discord bot: %v", err)
	}

	// Start Discord bot
	if err := discordBot.Start(); err != nil {
		log.Fatalf("Failed to start discord bot: %v", err)
	}
	defer discordBot.Stop()

	// Start keep-alive server
	apiServer := api.New(cfg)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Start self-ping worker
	pinger := api.NewPinger(cfg.SelfURL)
	pinger.Start()
	defer pinger.Stop()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
