package message

import (
	"fmt"

	"triad/internal/network"
)

// MessageSender é qualquer destino que aceita mensagens de rede. Desacopla
// este pacote de implementações concretas como PlayerSession.
type MessageSender interface {
	Enqueue(network.Message)
}

func SendErrorAndPrompt(sender MessageSender, format string, args ...any) {
	sender.Enqueue(CreateErrorResponse(fmt.Sprintf(format, args...)))
	sender.Enqueue(CreatePromptInputMessage())
}

func SendSuccess(sender MessageSender, state, text string, data any) {
	sender.Enqueue(CreateSuccessResponse(state, text, data))
}

func SendSuccessAndPrompt(sender MessageSender, state, text string, data any) {
	sender.Enqueue(CreateSuccessResponse(state, text, data))
	sender.Enqueue(CreatePromptInputMessage())
}

func SendPromptInput(sender MessageSender) {
	sender.Enqueue(CreatePromptInputMessage())
}
