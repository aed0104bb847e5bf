package session

import (
	"encoding/json"
	"strings"

	"triad/internal/game/ai"
	"triad/internal/session/message"
)

//Opção 1
func handleFindMatch(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	if !checkLobbyState(session) {
		message.SendErrorAndPrompt(session, "You can only search for a match from the lobby.")
		return
	}
	session.SetState(state_IN_QUEUE)
	h.matchmaker.EnqueuePlayer(session)
}

// Opção 2, payload opcional {"difficulty": "easy|normal|hard|expert"}
func handlePlayAI(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			message.SendErrorAndPrompt(session, "Invalid payload: 'difficulty' must be a string.")
			return
		}
	}

	difficulty, err := ai.ParseDifficulty(req.Difficulty)
	if err != nil {
		message.SendErrorAndPrompt(session, "Invalid difficulty %q. Use easy, normal, hard or expert.", req.Difficulty)
		return
	}

	h.CreateAIRoom(session, difficulty)
}

//Opção 3
func handleShowRules(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	var sb strings.Builder
	sb.WriteString("How a match works:\n")
	sb.WriteString("- Each side gets 3 secret cards. Stats always sum 20, each between 1 and 9.\n")
	sb.WriteString("- A match is 3 card-games; each card-game is 3 rounds.\n")
	sb.WriteString("- Every round both sides commit one unused property of their card.\n")
	sb.WriteString("- Same property: higher value scores the difference.\n")
	sb.WriteString("- Different properties: attack beats magic, magic beats deception,\n")
	sb.WriteString("  deception beats attack. The dominant side scores only if its value is higher.\n")
	sb.WriteString("- Most total points after 9 rounds wins the match.")
	message.SendSuccessAndPrompt(session, session.State(), sb.String(), nil)
}

func (h *GameHandler) registerLobbyHandlers() {
	// --- Ações de matchmaking ---
	h.lobbyRouter["FIND_MATCH"] = handleFindMatch
	h.lobbyRouter["PLAY_AI"] = handlePlayAI

	// --- Ações de visualização ---
	h.lobbyRouter["RULES"] = handleShowRules
}

func lobbyMenu() string {
	var sb strings.Builder
	sb.WriteString("\n--- Triad (Lobby) ---\n")
	sb.WriteString("1. FIND_MATCH - search for an opponent\n")
	sb.WriteString("2. PLAY_AI    - play against the engine\n")
	sb.WriteString("3. RULES      - how scoring works\n")
	sb.WriteString("---------------------\n")
	sb.WriteString("Escolha uma opção: ")
	return sb.String()
}
