package network

import (
	"encoding/json"
	"fmt"
)

// Message é o envelope padrão para toda a comunicação entre cliente e
// servidor. Type roteia a mensagem, Payload carrega os dados em JSON bruto
// para decodificação posterior pelo handler interessado.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MaxMessageSize limits a single frame. Anything larger is hostile or a bug.
const MaxMessageSize = 64 * 1024

// NewMessage builds an envelope with the payload marshaled in place.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// DecodePayload unmarshals the envelope payload into dst.
func DecodePayload(msg Message, dst any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("message %s carries no payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return nil
}
