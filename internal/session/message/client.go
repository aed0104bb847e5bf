package message

//Isso aqui são as mensagens que vão no sentido servidor -> cliente.

import (
	"log"

	"triad/internal/network"
)

// SuccessClientPayload carrega o estado explícito da sessão junto com a
// resposta, para o cliente saber qual menu mostrar.
type SuccessClientPayload struct {
	State   string `json:"state"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ErrorClientPayload struct {
	Error string `json:"error"`
}

func CreateSuccessResponse(state, text string, data any) network.Message {
	msg, err := network.NewMessage("RESPONSE_SUCCESS", SuccessClientPayload{
		State:   state,
		Message: text,
		Data:    data,
	})
	if err != nil {
		log.Printf("[Message] encode success response: %v", err)
	}
	return msg
}

func CreateErrorResponse(errorMsg string) network.Message {
	msg, err := network.NewMessage("RESPONSE_ERROR", ErrorClientPayload{Error: errorMsg})
	if err != nil {
		log.Printf("[Message] encode error response: %v", err)
	}
	return msg
}

// CreatePromptInputMessage diz ao cliente para mostrar um prompt. Sem payload.
func CreatePromptInputMessage() network.Message {
	return network.Message{Type: "PROMPT_INPUT"}
}
