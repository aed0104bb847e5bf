package session

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"triad/internal/events"
	"triad/internal/game/ai"
	"triad/internal/network"
	"triad/internal/session/message"
)

// CommandHandlerFunc define a assinatura de todas as funções que lidam com
// comandos: o contexto da sessão mais o payload bruto da mensagem.
type CommandHandlerFunc func(h *GameHandler, session *PlayerSession, payload json.RawMessage)

// GameHandler implementa network.EventHandler e é o dono de todas as
// sessões. Os callbacks On* rodam na goroutine do Hub; as salas rodam em
// goroutines próprias e só conversam com as sessões por canais.
type GameHandler struct {
	sessions   map[*network.Client]*PlayerSession
	matchmaker *Matchmaker
	publisher  *events.Publisher

	mu    sync.Mutex
	rooms map[string]*MatchRoom

	roomFinished chan string

	// Um roteador por estado do jogador.
	lobbyRouter map[string]CommandHandlerFunc
	queueRouter map[string]CommandHandlerFunc
	matchRouter map[string]CommandHandlerFunc
}

func NewGameHandler(publisher *events.Publisher) *GameHandler {
	h := &GameHandler{
		sessions:     make(map[*network.Client]*PlayerSession),
		publisher:    publisher,
		rooms:        make(map[string]*MatchRoom),
		roomFinished: make(chan string),
		lobbyRouter:  make(map[string]CommandHandlerFunc),
		queueRouter:  make(map[string]CommandHandlerFunc),
		matchRouter:  make(map[string]CommandHandlerFunc),
	}
	h.matchmaker = NewMatchmaker(h)
	h.registerLobbyHandlers()
	h.registerQueueHandlers()
	h.registerMatchHandlers()

	go h.matchmaker.Run()
	go h.reapRooms()
	return h
}

// reapRooms descarta salas que terminaram.
func (h *GameHandler) reapRooms() {
	for id := range h.roomFinished {
		h.mu.Lock()
		delete(h.rooms, id)
		active := len(h.rooms)
		h.mu.Unlock()
		log.Printf("[Session] room %s closed. Active rooms: %d", id, active)
	}
}

// --- Implementação da interface network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) {
	session := NewPlayerSession(c)
	h.sessions[c] = session
	log.Printf("[Session] session created for %s. Total sessions: %d", session.Addr(), len(h.sessions))

	welcome := "Welcome to Triad!\n" +
		"Each match deals you three cards. Every card splits 20 points across\n" +
		"deception, magic and attack. Attack beats magic, magic beats deception,\n" +
		"deception beats attack.\n" + lobbyMenu()
	message.SendSuccessAndPrompt(session, state_LOBBY, welcome, nil)
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	session, ok := h.sessions[c]
	if !ok {
		return
	}

	switch session.State() {
	case state_IN_QUEUE:
		// Tira da fila para o matchmaker não mandar mensagem a um fantasma.
		log.Printf("[Session] %s disconnected while in queue", session.Addr())
		h.matchmaker.LeaveQueue(session)

	case state_IN_MATCH:
		if room := session.Room(); room != nil {
			log.Printf("[Session] %s disconnected from room %s", session.Addr(), room.ID)
			room.unregister <- session
		}
	}

	delete(h.sessions, c)
	log.Printf("[Session] session for %s removed. Total sessions: %d", session.Addr(), len(h.sessions))
}

// OnMessage é um despachante: escolhe o roteador pelo estado do jogador e
// delega para o handler do comando.
func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	session, ok := h.sessions[c]
	if !ok {
		return // Ignora mensagens de clientes sem sessão.
	}

	var router map[string]CommandHandlerFunc
	state := session.State()
	switch state {
	case state_LOBBY:
		router = h.lobbyRouter
	case state_IN_QUEUE:
		router = h.queueRouter
	case state_IN_MATCH:
		router = h.matchRouter
	default:
		message.SendErrorAndPrompt(session, "Invalid session state: %s", state)
		return
	}

	handler, found := router[msg.Type]
	if !found {
		message.SendErrorAndPrompt(session, "Unknown command for your current state: %s", msg.Type)
		return
	}
	handler(h, session, msg.Payload)
}

// --- Criação de salas ---

func roomRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

// CreateNewRoom coloca dois jogadores humanos numa sala nova. Chamado pela
// goroutine do Matchmaker.
func (h *GameHandler) CreateNewRoom(p1, p2 *PlayerSession) {
	roomID := uuid.NewString()
	room, err := NewMatchRoom(roomID, [2]*PlayerSession{p1, p2}, nil, h.roomFinished, h.publisher, roomRand())
	if err != nil {
		log.Printf("[Session] failed to open room %s: %v", roomID, err)
		for _, p := range []*PlayerSession{p1, p2} {
			p.SetState(state_LOBBY)
			message.SendErrorAndPrompt(p, "Could not start the match: %v", err)
		}
		return
	}

	h.mu.Lock()
	h.rooms[roomID] = room
	h.mu.Unlock()

	p1.EnterRoom(room)
	p2.EnterRoom(room)
	go room.Run()
}

// CreateAIRoom coloca um jogador contra o motor de decisão.
func (h *GameHandler) CreateAIRoom(p *PlayerSession, difficulty ai.Difficulty) {
	roomID := uuid.NewString()
	rng := roomRand()
	source := ai.NewEngine(difficulty, rng)
	room, err := NewMatchRoom(roomID, [2]*PlayerSession{p, nil}, source, h.roomFinished, h.publisher, rng)
	if err != nil {
		log.Printf("[Session] failed to open AI room %s: %v", roomID, err)
		message.SendErrorAndPrompt(p, "Could not start the match: %v", err)
		return
	}

	h.mu.Lock()
	h.rooms[roomID] = room
	h.mu.Unlock()

	p.EnterRoom(room)
	go room.Run()
}
