package session

import (
	"fmt"
	"log"
	"time"

	"triad/internal/session/message"
)

type Matchmaker struct {
	queue []*PlayerSession

	// Canais para alterar a fila de forma segura e concorrente.
	enqueue chan *PlayerSession
	dequeue chan *PlayerSession

	// Referência de volta ao GameHandler para criar salas de jogo.
	gameHandler *GameHandler
}

func NewMatchmaker(gh *GameHandler) *Matchmaker {
	return &Matchmaker{
		queue:       make([]*PlayerSession, 0),
		enqueue:     make(chan *PlayerSession),
		dequeue:     make(chan *PlayerSession),
		gameHandler: gh,
	}
}

// Run é o loop do Matchmaker, em goroutine própria. O ticker dá uma chance
// por segundo de formar um par.
func (m *Matchmaker) Run() {
	log.Println("[Matchmaker] started")
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case playerSession := <-m.enqueue:
			m.queue = append(m.queue, playerSession)
			log.Printf("[Matchmaker] player added. Queue now has %d players", len(m.queue))
			message.SendSuccess(playerSession, state_IN_QUEUE, "You are now in the matchmaking queue.", nil)

		case playerToLeave := <-m.dequeue:
			for i, playerInQueue := range m.queue {
				if playerInQueue == playerToLeave {
					m.queue = append(m.queue[:i], m.queue[i+1:]...)
					log.Printf("[Matchmaker] player %s left the queue. Queue size now: %d",
						playerToLeave.Addr(), len(m.queue))
					break
				}
			}

		case <-ticker.C:
			if len(m.queue) >= 2 {
				player1 := m.queue[0]
				player2 := m.queue[1]
				m.queue = m.queue[2:]

				log.Printf("[Matchmaker] match found: %s vs %s. In queue now: %d",
					player1.Addr(), player2.Addr(), len(m.queue))
				m.gameHandler.CreateNewRoom(player1, player2)
			} else {
				m.broadcastQueue()
			}
		}
	}
}

// EnqueuePlayer apenas envia a sessão para o canal; a goroutine Run faz o
// resto. Rápido e não bloqueia.
func (m *Matchmaker) EnqueuePlayer(session *PlayerSession) {
	m.enqueue <- session
}

func (m *Matchmaker) LeaveQueue(session *PlayerSession) {
	m.dequeue <- session
}

func (m *Matchmaker) broadcastQueue() {
	for i, playerInQueue := range m.queue {
		statusMsg := fmt.Sprintf("Still searching for a match... You are position %d in queue.", i+1)
		message.SendSuccessAndPrompt(playerInQueue, state_IN_QUEUE, statusMsg, nil)
	}
}
