package network

// EventHandler é a interface que conecta a camada de rede com a lógica do
// jogo. O pacote session implementa esta interface; o Hub apenas entrega.
type EventHandler interface {
	// OnConnect runs when a client finishes the websocket handshake.
	OnConnect(c *Client)

	// OnDisconnect runs after a client is removed from the hub.
	OnDisconnect(c *Client)

	// OnMessage runs for every inbound envelope from a client.
	OnMessage(c *Client, msg Message)
}
