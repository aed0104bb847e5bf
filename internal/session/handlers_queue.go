package session

import (
	"encoding/json"

	"triad/internal/session/message"
)

func handleLeaveQueue(h *GameHandler, session *PlayerSession, payload json.RawMessage) {
	if !checkQueueState(session) {
		message.SendErrorAndPrompt(session, "You are not in queue.")
		return
	}

	session.SetState(state_LOBBY)
	message.SendSuccess(session, state_LOBBY, "Your request to leave the queue was received.", nil)

	h.matchmaker.LeaveQueue(session)
	message.SendPromptInput(session)
}

func (h *GameHandler) registerQueueHandlers() {
	h.queueRouter["LEAVE_QUEUE"] = handleLeaveQueue
	h.queueRouter["QUIT"] = handleLeaveQueue
	h.queueRouter["RULES"] = handleShowRules
}
