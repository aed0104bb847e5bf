package session

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"triad/internal/events"
	"triad/internal/game/ai"
	"triad/internal/game/card"
	"triad/internal/game/match"
	"triad/internal/network"
	"triad/internal/session/message"
)

// roomCommand empacota um comando de partida com a sessão que o enviou.
type roomCommand struct {
	session *PlayerSession
	msg     network.Message
}

// MatchRoom é a dona de um Coordinator. Todo o estado da partida vive na
// goroutine de Run; jogadores e IA só entram pelos canais, então não há
// mutex aqui.
type MatchRoom struct {
	ID      string
	players [2]*PlayerSession // o assento B é nil quando o oponente é a IA

	aiSource ai.MoveSource

	coordinator *match.Coordinator

	// Cartas já mostradas por cada lado. É tudo que a IA pode saber sobre a
	// mão do oponente.
	revealed [2]map[int]bool

	commands chan roomCommand

	// Com folga para os dois assentos: o Hub nunca bloqueia ao avisar uma
	// desconexão, mesmo se a sala já tiver encerrado.
	unregister chan *PlayerSession

	quit chan struct{}

	finished  chan<- string // Notifica o GameHandler que a sala terminou.
	publisher *events.Publisher
	rng       *rand.Rand

	done bool
}

// NewMatchRoom deals six distinct cards from the universe, three per side,
// and builds the coordinator. The AI always sits on side B.
func NewMatchRoom(id string, players [2]*PlayerSession, aiSource ai.MoveSource, finished chan<- string, publisher *events.Publisher, rng *rand.Rand) (*MatchRoom, error) {
	drawn, err := card.RandomCards(rng, 2*match.HandSize, nil)
	if err != nil {
		return nil, fmt.Errorf("deal hands: %w", err)
	}
	var handA, handB [match.HandSize]*card.Card
	copy(handA[:], drawn[:match.HandSize])
	copy(handB[:], drawn[match.HandSize:])

	coordinator, err := match.StartMatch(handA, handB)
	if err != nil {
		return nil, err
	}

	return &MatchRoom{
		ID:          id,
		players:     players,
		aiSource:    aiSource,
		coordinator: coordinator,
		revealed: [2]map[int]bool{
			make(map[int]bool),
			make(map[int]bool),
		},
		commands:   make(chan roomCommand, 16),
		unregister: make(chan *PlayerSession, 2),
		quit:       make(chan struct{}),
		finished:   finished,
		publisher:  publisher,
		rng:        rng,
	}, nil
}

func (r *MatchRoom) Run() {
	log.Printf("[Session] room %s started: %s vs %s", r.ID, r.seatName(match.SideA), r.seatName(match.SideB))
	r.broadcastStart()
	r.pump()

	for !r.done {
		select {
		case cmd := <-r.commands:
			r.handleCommand(cmd)
		case p := <-r.unregister:
			// Quem caiu já foi desregistrado do Hub e não recebe mais nada:
			// tira o assento da sala antes de qualquer broadcast.
			side := r.seatOf(p)
			r.players[side] = nil
			r.handleWalkover(side)
		case <-r.quit:
			return
		}
	}
}

func (r *MatchRoom) seatOf(session *PlayerSession) match.Side {
	if r.players[match.SideB] == session {
		return match.SideB
	}
	return match.SideA
}

func (r *MatchRoom) seatName(side match.Side) string {
	if r.players[side] == nil {
		return "the engine"
	}
	return r.players[side].Addr()
}

func (r *MatchRoom) handleCommand(cmd roomCommand) {
	side := r.seatOf(cmd.session)

	switch cmd.msg.Type {
	case "SELECT_CARD":
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.Unmarshal(cmd.msg.Payload, &req); err != nil || req.Index == nil {
			message.SendErrorAndPrompt(cmd.session, "Invalid payload: 'index' field is required and must be a number.")
			return
		}
		if err := r.coordinator.SelectCard(side, *req.Index); err != nil {
			message.SendErrorAndPrompt(cmd.session, "Cannot select that card: %v", err)
			return
		}
		message.SendSuccess(cmd.session, state_IN_MATCH, fmt.Sprintf("Card %d locked in.", *req.Index), nil)
		r.pump()

	case "SELECT_PROPERTY":
		var req struct {
			Property *string `json:"property"`
		}
		if err := json.Unmarshal(cmd.msg.Payload, &req); err != nil || req.Property == nil {
			message.SendErrorAndPrompt(cmd.session, "Invalid payload: 'property' field is required and must be a string.")
			return
		}
		prop, err := card.ParseProperty(*req.Property)
		if err != nil {
			message.SendErrorAndPrompt(cmd.session, "Unknown property %q. Use deception, magic or attack.", *req.Property)
			return
		}
		if err := r.coordinator.SelectProperty(side, prop); err != nil {
			message.SendErrorAndPrompt(cmd.session, "Cannot play %s: %v", prop, err)
			return
		}
		message.SendSuccess(cmd.session, state_IN_MATCH, fmt.Sprintf("You committed %s.", prop), nil)
		r.pump()

	case "AUTO_PLAY":
		if err := r.coordinator.AutoPlayFinalRound(); err != nil {
			message.SendErrorAndPrompt(cmd.session, "Cannot auto-play: %v", err)
			return
		}
		r.pump()

	case "STATE":
		r.sendStateView(cmd.session)

	case "QUIT":
		r.handleWalkover(side)

	default:
		message.SendErrorAndPrompt(cmd.session, "Unknown match command: %s", cmd.msg.Type)
	}
}

// pump empurra a partida para frente até precisar de input humano ou acabar.
func (r *MatchRoom) pump() {
	for !r.done {
		switch r.coordinator.Phase() {
		case match.PhaseCardSelection:
			r.aiSelectCard()
			if r.coordinator.Phase() == match.PhaseCardSelection {
				r.promptCardSelection()
				return
			}

		case match.PhasePropertySelection:
			r.noteRevealedCards()
			r.aiSelectProperty()
			if r.coordinator.Phase() == match.PhasePropertySelection {
				r.promptPropertySelection()
				return
			}

		case match.PhaseRoundResult:
			r.broadcastRoundResult()
			if r.coordinator.Machine().AllRoundsComplete() {
				if err := r.coordinator.CompleteCardGame(); err != nil {
					log.Printf("[Session] room %s: complete card-game: %v", r.ID, err)
					return
				}
			} else if err := r.coordinator.AdvanceToNextRound(); err != nil {
				log.Printf("[Session] room %s: advance round: %v", r.ID, err)
				return
			}

		case match.PhaseCardComplete:
			r.broadcastGameSummary()
			if err := r.coordinator.AdvanceToNextCard(); err != nil {
				log.Printf("[Session] room %s: advance card: %v", r.ID, err)
				return
			}

		case match.PhaseGameOver:
			r.handleGameOver()
			return
		}
	}
}

// noteRevealedCards marca as cartas em jogo como públicas. Idempotente.
func (r *MatchRoom) noteRevealedCards() {
	machine := r.coordinator.Machine()
	if machine == nil {
		return
	}
	r.revealed[match.SideA][machine.Card(match.SideA).ID()] = true
	r.revealed[match.SideB][machine.Card(match.SideB).ID()] = true
}

// opponentPool é o que o assento sabe sobre a mão do oponente: o universo
// inteiro menos as próprias cartas e menos o que o oponente já revelou.
func (r *MatchRoom) opponentPool(side match.Side) []*card.Card {
	exclude := make(map[int]bool)
	for _, c := range r.coordinator.Hand(side).Cards() {
		exclude[c.ID()] = true
	}
	for id := range r.revealed[side.Opponent()] {
		exclude[id] = true
	}

	var pool []*card.Card
	for _, c := range card.GenerateAll() {
		if !exclude[c.ID()] {
			pool = append(pool, c)
		}
	}
	return pool
}

// aiSelectCard faz a IA escolher a carta do assento B assim que a fase de
// seleção abre, antes de qualquer informação da rodada vazar.
func (r *MatchRoom) aiSelectCard() {
	if r.aiSource == nil || r.coordinator.PendingCard(match.SideB) != -1 {
		return
	}

	hand := r.coordinator.Hand(match.SideB)
	cards := hand.Cards()
	used := make([]bool, len(cards))
	for i := range cards {
		used[i] = hand.IsUsed(i)
	}

	idx, _, err := r.aiSource.ChooseCardAndProperty(cards, used, card.AllProperties(), r.opponentPool(match.SideB), nil)
	if err != nil {
		// Nunca deve acontecer com uma mão válida; joga a primeira sobrando.
		log.Printf("[Session] room %s: engine card choice failed: %v", r.ID, err)
		idx = hand.UnusedIndices()[0]
	}
	if err := r.coordinator.SelectCard(match.SideB, idx); err != nil {
		log.Printf("[Session] room %s: engine select card: %v", r.ID, err)
	}
}

// aiSelectProperty comete a propriedade da IA. A IA sempre comete antes do
// humano na rodada, então ela nunca enxerga a escolha pendente dele.
func (r *MatchRoom) aiSelectProperty() {
	machine := r.coordinator.Machine()
	if r.aiSource == nil || machine == nil || machine.HasCommitted(match.SideB) {
		return
	}

	available := machine.AvailableProperties(match.SideB)
	opponentUsed := spentProperties(machine.AvailableProperties(match.SideA))

	prop, err := r.aiSource.ChooseProperty(machine.Card(match.SideB), available, r.opponentPool(match.SideB), opponentUsed)
	if err != nil {
		log.Printf("[Session] room %s: engine property choice failed: %v", r.ID, err)
		prop = available[0]
	}
	if err := r.coordinator.SelectProperty(match.SideB, prop); err != nil {
		log.Printf("[Session] room %s: engine select property: %v", r.ID, err)
	}
}

// spentProperties inverte uma lista de disponíveis.
func spentProperties(available []card.Property) []card.Property {
	left := make(map[card.Property]bool, len(available))
	for _, p := range available {
		left[p] = true
	}
	var spent []card.Property
	for _, p := range card.AllProperties() {
		if !left[p] {
			spent = append(spent, p)
		}
	}
	return spent
}

// --- Mensagens para os jogadores ---

func (r *MatchRoom) eachPlayer(fn func(side match.Side, p *PlayerSession)) {
	for i, p := range r.players {
		if p != nil {
			fn(match.Side(i), p)
		}
	}
}

func (r *MatchRoom) broadcastStart() {
	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		var sb strings.Builder
		sb.WriteString("Match found! Your hand:\n")
		sb.WriteString(r.handText(side))
		sb.WriteString("\nBest of three card-games, three rounds each. Good luck.")
		message.SendSuccess(p, state_IN_MATCH, sb.String(), nil)
	})
}

func (r *MatchRoom) handText(side match.Side) string {
	hand := r.coordinator.Hand(side)
	var sb strings.Builder
	for i, c := range hand.Cards() {
		marker := " "
		if hand.IsUsed(i) {
			marker = "x"
		}
		sb.WriteString(fmt.Sprintf("  [%d]%s %s\n", i, marker, c))
	}
	return sb.String()
}

func (r *MatchRoom) promptCardSelection() {
	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		if r.coordinator.PendingCard(side) != -1 {
			message.SendSuccess(p, state_IN_MATCH, "Waiting for your opponent to pick a card...", nil)
			return
		}
		text := fmt.Sprintf("Card-game %d of %d. Pick a card with SELECT_CARD {\"index\": n}:\n%s",
			r.coordinator.CurrentGame(), match.CardGamesPerMatch, r.handText(side))
		message.SendSuccessAndPrompt(p, state_IN_MATCH, text, nil)
	})
}

func (r *MatchRoom) promptPropertySelection() {
	machine := r.coordinator.Machine()
	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		if machine.HasCommitted(side) {
			message.SendSuccess(p, state_IN_MATCH, "Waiting for your opponent's property...", nil)
			return
		}
		available := machine.AvailableProperties(side)
		names := make([]string, len(available))
		for i, prop := range available {
			names[i] = fmt.Sprintf("%s (%d)", prop, machine.Card(side).Value(prop))
		}
		text := fmt.Sprintf("Round %d of %d with %s.\nAvailable: %s.\nPlay with SELECT_PROPERTY {\"property\": \"name\"}",
			machine.RoundNumber(), match.RoundsPerCardGame, machine.Card(side), strings.Join(names, ", "))
		if _, forced := machine.OnlyOneLeft(side); forced && machine.RoundNumber() == match.RoundsPerCardGame {
			text += "\n(or send AUTO_PLAY: only one property left)"
		}
		message.SendSuccessAndPrompt(p, state_IN_MATCH, text, nil)
	})
}

func (r *MatchRoom) broadcastRoundResult() {
	rounds := r.coordinator.Machine().Rounds()
	last := rounds[len(rounds)-1]

	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		you, them := last.PointsA, last.PointsB
		if side == match.SideB {
			you, them = them, you
		}
		text := fmt.Sprintf("Round %d: %s\nRound points: you %d, opponent %d. Match score: you %d, opponent %d.",
			len(rounds), last.Rationale, you, them,
			r.coordinator.Score(side), r.coordinator.Score(side.Opponent()))
		message.SendSuccess(p, state_IN_MATCH, text, nil)
	})
}

func (r *MatchRoom) broadcastGameSummary() {
	games := r.coordinator.GameResults()
	last := games[len(games)-1]

	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		you, them := last.PointsA, last.PointsB
		yourCard, theirCard := last.CardA, last.CardB
		if side == match.SideB {
			you, them = them, you
			yourCard, theirCard = theirCard, yourCard
		}
		verdict := "a draw"
		switch {
		case you > them:
			verdict = "yours"
		case them > you:
			verdict = "your opponent's"
		}
		text := fmt.Sprintf("Card-game %d done: your %s vs their %s.\nIt went %d-%d, the card-game was %s.",
			len(games), yourCard, theirCard, you, them, verdict)
		message.SendSuccess(p, state_IN_MATCH, text, nil)
	})
}

func (r *MatchRoom) sendStateView(session *PlayerSession) {
	side := r.seatOf(session)
	snapshot := r.coordinator.Snapshot()

	data := map[string]any{
		"snapshot": snapshot,
		"hand":     strings.Split(strings.TrimRight(r.handText(side), "\n"), "\n"),
		"score": map[string]int{
			"you":      r.coordinator.Score(side),
			"opponent": r.coordinator.Score(side.Opponent()),
		},
	}
	if machine := r.coordinator.Machine(); machine != nil {
		data["inPlay"] = machine.Card(side).String()
		data["available"] = machine.AvailableProperties(side)
	}
	message.SendSuccessAndPrompt(session, state_IN_MATCH, snapshot.Instruction, data)
}

// --- Fim de partida ---

func (r *MatchRoom) handleGameOver() {
	if r.done {
		return
	}
	result, err := r.coordinator.CompleteMatch()
	if err != nil {
		log.Printf("[Session] room %s: complete match: %v", r.ID, err)
		return
	}

	log.Printf("[Session] room %s: match over, %s %d-%d in %s",
		r.ID, result.Winner, result.ScoreA, result.ScoreB, result.Duration.Round(time.Millisecond))

	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		stats := result.StatsA
		theirs := result.StatsB
		if side == match.SideB {
			stats, theirs = theirs, stats
		}

		var sb strings.Builder
		switch {
		case result.Winner == match.OutcomeTie:
			sb.WriteString("Match over: a dead tie!\n")
		case (result.Winner == match.OutcomeSideA) == (side == match.SideA):
			sb.WriteString("Match over: you win!\n")
		default:
			sb.WriteString("Match over: you lose.\n")
		}
		sb.WriteString(fmt.Sprintf("Final score %d-%d (%d of yours from bonuses).\n",
			stats.Total(), theirs.Total(), stats.BonusPoints))
		sb.WriteString(fmt.Sprintf("Rounds won %d, lost %d, tied %d. Best round: %d points.",
			stats.RoundWins, stats.RoundLosses, stats.RoundTies, stats.HighestRound))
		message.SendSuccess(p, state_IN_MATCH, sb.String(), nil)
	})

	r.publisher.PublishMatchResult(events.MatchResultEvent{
		RoomID:     r.ID,
		Winner:     string(result.Winner),
		ScoreA:     result.ScoreA,
		ScoreB:     result.ScoreB,
		Reason:     "completed",
		AgainstAI:  r.aiSource != nil,
		DurationMS: result.Duration.Milliseconds(),
		FinishedAt: time.Now(),
	})

	r.closeRoom()
}

// handleWalkover encerra a partida quando um jogador sai ou desconecta no
// meio. O lado que ficou vence.
func (r *MatchRoom) handleWalkover(leaverSide match.Side) {
	if r.done {
		return
	}
	winnerSide := leaverSide.Opponent()

	log.Printf("[Session] room %s: %s left, %s wins by walkover",
		r.ID, r.seatName(leaverSide), r.seatName(winnerSide))

	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		if side == winnerSide {
			message.SendSuccess(p, state_IN_MATCH, "Your opponent left the match. You win by walkover!", nil)
		} else {
			message.SendSuccess(p, state_IN_MATCH, "You conceded the match.", nil)
		}
	})

	winner := match.OutcomeSideA
	if winnerSide == match.SideB {
		winner = match.OutcomeSideB
	}
	r.publisher.PublishMatchResult(events.MatchResultEvent{
		RoomID:     r.ID,
		Winner:     string(winner),
		ScoreA:     r.coordinator.Score(match.SideA),
		ScoreB:     r.coordinator.Score(match.SideB),
		Reason:     "walkover",
		AgainstAI:  r.aiSource != nil,
		FinishedAt: time.Now(),
	})

	r.closeRoom()
}

// closeRoom devolve os jogadores ao lobby e avisa o GameHandler.
func (r *MatchRoom) closeRoom() {
	r.done = true
	r.eachPlayer(func(side match.Side, p *PlayerSession) {
		p.LeaveMatch()
		message.SendSuccessAndPrompt(p, state_LOBBY,
			"You are back in the lobby. You can find a new match now."+lobbyMenu(), nil)
	})
	r.finished <- r.ID
}
