package network

import (
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por um pong do cliente.
	pongWait = 60 * time.Second

	// Frequência dos pings. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um jogador conectado do ponto de vista do
// servidor: a conexão WebSocket mais os canais de comunicação com o Hub.
type Client struct {
	conn *websocket.Conn
	hub  *Hub

	// O buffer evita que o Hub bloqueie quando um cliente está lento.
	send chan Message

	// O mutex serializa Enqueue com o shutdown do Hub: salas e matchmaker
	// escrevem de goroutines próprias enquanto o Hub desregistra clientes.
	mu     sync.Mutex
	closed bool
}

// Conn exposes the underlying connection, mainly for the remote address.
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// Enqueue queues an envelope for the writeLoop. Safe from any goroutine:
// after the Hub unregisters this client the message is silently dropped,
// and a full buffer drops instead of blocking the caller.
func (c *Client) Enqueue(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		log.Printf("[Network] send buffer full, dropping %s", msg.Type)
	}
}

// shutdown fecha a fila de saída. Só o Hub chama, uma única vez.
func (c *Client) shutdown() {
	c.mu.Lock()
	c.closed = true
	close(c.send)
	c.mu.Unlock()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Network] unexpected close from %s: %v", c.conn.RemoteAddr(), err)
			}
			break
		}
		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop bombeia mensagens do canal send para a conexão, intercalando
// pings periódicos.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// O Hub desregistrou este cliente.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("[Network] write to %s failed: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
