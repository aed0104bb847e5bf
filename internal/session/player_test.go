package session

import (
	"sync"
	"testing"
)

func TestPlayerSessionTransitions(t *testing.T) {
	s := NewPlayerSession(nil)
	if !checkLobbyState(s) {
		t.Fatalf("new session state = %q, want lobby", s.State())
	}

	s.SetState(state_IN_QUEUE)
	if !checkQueueState(s) {
		t.Errorf("state after SetState = %q, want in-queue", s.State())
	}

	room := &MatchRoom{ID: "room-1"}
	s.EnterRoom(room)
	if s.State() != state_IN_MATCH {
		t.Errorf("state after EnterRoom = %q, want in-match", s.State())
	}
	if s.Room() != room {
		t.Error("Room() does not return the room the session entered")
	}

	s.LeaveMatch()
	if !checkLobbyState(s) || s.Room() != nil {
		t.Errorf("after LeaveMatch: state %q, room %v", s.State(), s.Room())
	}
}

func TestPlayerSessionConcurrentStateAccess(t *testing.T) {
	// O Hub lê estado e sala enquanto salas e matchmaker escrevem. O acesso
	// inteiro passa pelo mutex da sessão.
	s := NewPlayerSession(nil)
	room := &MatchRoom{ID: "room-race"}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.EnterRoom(room)
			s.LeaveMatch()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.SetState(state_IN_QUEUE)
			s.SetState(state_LOBBY)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 400; i++ {
			_ = s.State()
			_ = s.Room()
		}
	}()
	wg.Wait()

	s.LeaveMatch()
	if !checkLobbyState(s) || s.Room() != nil {
		t.Errorf("final state %q, room %v", s.State(), s.Room())
	}
}
