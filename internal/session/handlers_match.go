package session

import (
	"encoding/json"

	"triad/internal/network"
	"triad/internal/session/message"
)

// Handlers de partida não tocam no Coordinator: eles só encaminham o
// comando para a goroutine da sala, que é a única dona do estado do jogo.
func forwardToRoom(msgType string) CommandHandlerFunc {
	return func(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
		room := session.Room()
		if room == nil {
			message.SendErrorAndPrompt(session, "You are not in a match.")
			return
		}
		room.commands <- roomCommand{
			session: session,
			msg:     network.Message{Type: msgType, Payload: payload},
		}
	}
}

func (h *GameHandler) registerMatchHandlers() {
	h.matchRouter["SELECT_CARD"] = forwardToRoom("SELECT_CARD")
	h.matchRouter["SELECT_PROPERTY"] = forwardToRoom("SELECT_PROPERTY")
	h.matchRouter["AUTO_PLAY"] = forwardToRoom("AUTO_PLAY")
	h.matchRouter["STATE"] = forwardToRoom("STATE")
	h.matchRouter["QUIT"] = forwardToRoom("QUIT")
}
