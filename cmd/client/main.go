package main

import (
	"bufio"
	"encoding/json"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"triad/internal/network"
)

// successPayload espelha o que o servidor manda em RESPONSE_SUCCESS.
type successPayload struct {
	State   string          `json:"state"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	addr := os.Getenv("TRIAD_SERVER")
	if addr == "" {
		addr = "localhost:8080"
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Tri", pterm.FgLightMagenta.ToStyle()),
		putils.LettersFromStringWithStyle("ad", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	pterm.Info.Printfln("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		pterm.Error.Printfln("Could not connect: %v", err)
		os.Exit(1)
	}
	defer conn.Close()
	pterm.Success.Println("Connected!")

	done := make(chan struct{})
	go readLoop(conn, done)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			msg, err := buildMessage(scanner.Text())
			if err != nil {
				pterm.Warning.Println(err.Error())
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				pterm.Error.Printfln("Write failed: %v", err)
				return
			}
		}
	}()

	select {
	case <-done:
		pterm.Info.Println("Disconnected from the server.")
	case <-interrupt:
		pterm.Info.Println("Interrupt received, closing the connection.")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "RESPONSE_SUCCESS":
			var payload successPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				pterm.Warning.Printfln("Bad payload from server: %v", err)
				continue
			}
			pterm.Println(payload.Message)
			if len(payload.Data) > 0 {
				var pretty map[string]any
				if json.Unmarshal(payload.Data, &pretty) == nil {
					for key, value := range pretty {
						pterm.Printfln("  %s: %v", pterm.LightCyan(key), value)
					}
				}
			}

		case "RESPONSE_ERROR":
			var payload errorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err == nil {
				pterm.Error.Println(payload.Error)
			}

		case "PROMPT_INPUT":
			pterm.Print(pterm.LightMagenta("> "))

		default:
			pterm.Warning.Printfln("Unknown message type: %s", msg.Type)
		}
	}
}

// buildMessage traduz a linha digitada para o comando do protocolo.
func buildMessage(input string) (network.Message, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return network.Message{}, errUsage
	}

	switch fields[0] {
	case "1", "find", "find_match":
		return network.NewMessage("FIND_MATCH", nil)

	case "2", "ai", "play_ai":
		difficulty := "normal"
		if len(fields) > 1 {
			difficulty = fields[1]
		}
		return network.NewMessage("PLAY_AI", map[string]string{"difficulty": difficulty})

	case "3", "rules":
		return network.NewMessage("RULES", nil)

	case "leave", "leave_queue":
		return network.NewMessage("LEAVE_QUEUE", nil)

	case "card", "select_card":
		if len(fields) < 2 {
			return network.Message{}, errUsage
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return network.Message{}, errUsage
		}
		return network.NewMessage("SELECT_CARD", map[string]int{"index": index})

	case "play", "select_property":
		if len(fields) < 2 {
			return network.Message{}, errUsage
		}
		return network.NewMessage("SELECT_PROPERTY", map[string]string{"property": fields[1]})

	case "auto", "auto_play":
		return network.NewMessage("AUTO_PLAY", nil)

	case "state":
		return network.NewMessage("STATE", nil)

	case "quit", "concede":
		return network.NewMessage("QUIT", nil)
	}
	return network.Message{}, errUsage
}

var errUsage = usageError{}

type usageError struct{}

func (usageError) Error() string {
	return "Commands: find | ai [difficulty] | rules | leave | card <index> | play <property> | auto | state | quit"
}
