package main

import (
	"log"
	"math/rand/v2"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"triad/internal/network"
)

// Um bot de carga burro de propósito: entra contra a IA e, a cada prompt,
// tenta uma jogada candidata. Jogadas ilegais só rendem um erro e um novo
// prompt, então no fim toda partida termina.

type successPayload struct {
	State string `json:"state"`
}

func main() {
	addr := os.Getenv("TRIAD_SERVER")
	if addr == "" {
		addr = "server:8080"
	}
	difficulty := os.Getenv("BOT_OPPONENT")
	if difficulty == "" {
		difficulty = "easy"
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Printf("Connection FAIL: could not connect to server: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("Connected to %s, playing against the %s engine", addr, difficulty)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 77))
	state := "lobby"
	matches := 0

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("FAIL: connection lost: %v", err)
			return
		}

		switch msg.Type {
		case "RESPONSE_SUCCESS":
			var payload successPayload
			if err := network.DecodePayload(msg, &payload); err == nil && payload.State != "" {
				if state == "in-match" && payload.State == "lobby" {
					matches++
					log.Printf("Match #%d finished", matches)
				}
				state = payload.State
			}

		case "PROMPT_INPUT":
			move := nextMove(state, difficulty, rng)
			// Pensa um pouco antes de agir, como um jogador de verdade.
			time.Sleep(time.Duration(100+rng.IntN(400)) * time.Millisecond)
			if err := conn.WriteJSON(move); err != nil {
				log.Printf("FAIL: could not send %s: %v", move.Type, err)
				return
			}
		}
	}
}

// nextMove escolhe um candidato ao acaso. O servidor é quem sabe o que é
// legal agora; o bot só insiste até acertar.
func nextMove(state, difficulty string, rng *rand.Rand) network.Message {
	if state == "lobby" {
		msg, _ := network.NewMessage("PLAY_AI", map[string]string{"difficulty": difficulty})
		return msg
	}

	if rng.IntN(2) == 0 {
		msg, _ := network.NewMessage("SELECT_CARD", map[string]int{"index": rng.IntN(3)})
		return msg
	}
	properties := []string{"deception", "magic", "attack"}
	msg, _ := network.NewMessage("SELECT_PROPERTY", map[string]string{"property": properties[rng.IntN(3)]})
	return msg
}
