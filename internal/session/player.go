package session

import (
	"sync"

	"triad/internal/network"
)

// Constantes de estado da sessão para evitar erros de digitação.
const (
	state_LOBBY    = "lobby"    // No menu, pode buscar partida.
	state_IN_QUEUE = "in-queue" // Esperando o matchmaking.
	state_IN_MATCH = "in-match" // Dentro de uma MatchRoom ativa.
)

// PlayerSession representa um jogador único e conectado ao servidor.
// O estado e a sala são lidos pela goroutine do Hub e escritos pelas
// goroutines do matchmaker e das salas, então ficam atrás de um mutex.
type PlayerSession struct {
	Client *network.Client

	mu          sync.Mutex
	state       string
	currentRoom *MatchRoom
}

func NewPlayerSession(client *network.Client) *PlayerSession {
	return &PlayerSession{
		Client: client,
		state:  state_LOBBY, // Todo jogador começa no lobby.
	}
}

// Enqueue satisfaz message.MessageSender.
func (s *PlayerSession) Enqueue(msg network.Message) {
	s.Client.Enqueue(msg)
}

// Addr is the remote address, used as the player's display name in logs.
func (s *PlayerSession) Addr() string {
	return s.Client.Conn().RemoteAddr().String()
}

func (s *PlayerSession) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState troca o estado sem mexer na sala (lobby <-> fila).
func (s *PlayerSession) SetState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *PlayerSession) Room() *MatchRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRoom
}

// EnterRoom coloca a sessão em partida. Estado e sala mudam juntos para o
// Hub nunca enxergar um in-match sem sala.
func (s *PlayerSession) EnterRoom(room *MatchRoom) {
	s.mu.Lock()
	s.state = state_IN_MATCH
	s.currentRoom = room
	s.mu.Unlock()
}

// LeaveMatch devolve a sessão ao lobby e solta a referência da sala.
func (s *PlayerSession) LeaveMatch() {
	s.mu.Lock()
	s.state = state_LOBBY
	s.currentRoom = nil
	s.mu.Unlock()
}

func checkLobbyState(session *PlayerSession) bool {
	return session.State() == state_LOBBY
}

func checkQueueState(session *PlayerSession) bool {
	return session.State() == state_IN_QUEUE
}
