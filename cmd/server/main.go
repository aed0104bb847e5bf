package main

import (
	"log"
	"os"

	"triad/internal/events"
	"triad/internal/network"
	"triad/internal/session"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := envOr("TRIAD_ADDR", ":8080")
	natsURL := os.Getenv("NATS_URL") // vazio = sem broker, o publisher vira no-op

	publisher, err := events.Connect(natsURL)
	if err != nil {
		log.Fatalf("Could not reach the event bus: %v", err)
	}
	defer publisher.Close()

	gameHandler := session.NewGameHandler(publisher)
	server := network.NewServer(gameHandler)

	if err := server.Listen(addr); err != nil {
		log.Fatalf("Could not start the server: %v", err)
	}
}
