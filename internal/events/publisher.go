package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectMatchResult is where finished matches are announced.
const SubjectMatchResult = "triad.match.result"

// MatchResultEvent is the wire form of a finished match.
type MatchResultEvent struct {
	RoomID     string    `json:"roomId"`
	Winner     string    `json:"winner"`
	ScoreA     int       `json:"scoreA"`
	ScoreB     int       `json:"scoreB"`
	Reason     string    `json:"reason"`
	AgainstAI  bool      `json:"againstAi"`
	DurationMS int64     `json:"durationMs"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Publisher emits match results onto the NATS bus. A nil Publisher is a
// no-op, so the server runs fine with no broker configured.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the broker. An empty URL means "no broker" and yields a
// nil publisher rather than an error.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := nats.Connect(url,
		nats.Name("triad-server"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	log.Printf("[Events] connected to nats at %s", url)
	return &Publisher{conn: conn}, nil
}

// PublishMatchResult fires and forgets. A result announcement must never
// take a game room down with it, so failures are only logged.
func (p *Publisher) PublishMatchResult(ev MatchResultEvent) {
	if p == nil || p.conn == nil {
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Events] encode match result for room %s: %v", ev.RoomID, err)
		return
	}
	if err := p.conn.Publish(SubjectMatchResult, raw); err != nil {
		log.Printf("[Events] publish match result for room %s: %v", ev.RoomID, err)
	}
}

func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Drain()
}
