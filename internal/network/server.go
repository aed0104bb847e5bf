package network

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server aceita conexões WebSocket e as entrega ao Hub.
type Server struct {
	hub *Hub
}

var upgrader = websocket.Upgrader{
	// Qualquer origem pode conectar. Controle de acesso fica para um proxy.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer é o ponto de injeção da lógica do jogo: o handler recebido
// aqui processa todos os eventos de todos os clientes.
func NewServer(handler EventHandler) *Server {
	return &Server{hub: NewHub(handler)}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Network] upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}
	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// Listen starts the hub goroutine and blocks serving websocket upgrades
// on the /ws route.
func (s *Server) Listen(address string) error {
	go s.hub.Run()

	http.HandleFunc("/ws", s.wsHandler)
	log.Printf("[Network] listening on ws://%s/ws", address)
	return http.ListenAndServe(address, nil)
}
