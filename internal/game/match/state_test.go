package match

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"triad/internal/game/card"
)

// midMatchCoordinator plays one full card-game, advances, and leaves the
// second card-game resolved on round one.
func midMatchCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	c := newTestMatch(t)
	playCardGame(t, c, 0, 0, testScript[0])
	if err := c.AdvanceToNextCard(); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectCard(SideA, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectCard(SideB, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectProperty(SideA, card.Deception); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectProperty(SideB, card.Attack); err != nil {
		t.Fatal(err)
	}
	return c
}

func finishedCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	c := newTestMatch(t)
	for game := 0; game < CardGamesPerMatch; game++ {
		playCardGame(t, c, game, game, testScript[game])
		if game < CardGamesPerMatch-1 {
			if err := c.AdvanceToNextCard(); err != nil {
				t.Fatal(err)
			}
		}
	}
	return c
}

func TestStateRoundTripMidMatch(t *testing.T) {
	c := midMatchCoordinator(t)

	exported := c.ExportState()
	restored, err := ImportState(exported)
	if err != nil {
		t.Fatalf("ImportState: %v", err)
	}

	if got, want := restored.Snapshot(), c.Snapshot(); got != want {
		t.Errorf("snapshot after import = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(restored.Stats(SideA), c.Stats(SideA)) {
		t.Errorf("side A stats diverged: %+v vs %+v", restored.Stats(SideA), c.Stats(SideA))
	}
	if !reflect.DeepEqual(restored.Stats(SideB), c.Stats(SideB)) {
		t.Errorf("side B stats diverged: %+v vs %+v", restored.Stats(SideB), c.Stats(SideB))
	}
	if !reflect.DeepEqual(restored.ExportState(), exported) {
		t.Error("re-export does not match the original export")
	}

	// The restored match must keep playing normally.
	if err := restored.AdvanceToNextRound(); err != nil {
		t.Fatalf("advance on restored match: %v", err)
	}
	if err := restored.SelectProperty(SideA, card.Deception); !errors.Is(err, ErrPropertyReused) {
		t.Errorf("reuse on restored match error = %v, want ErrPropertyReused", err)
	}
}

func TestStateRoundTripFinishedMatch(t *testing.T) {
	c := finishedCoordinator(t)

	restored, err := ImportState(c.ExportState())
	if err != nil {
		t.Fatalf("ImportState: %v", err)
	}
	want, err := c.CompleteMatch()
	if err != nil {
		t.Fatal(err)
	}
	got, err := restored.CompleteMatch()
	if err != nil {
		t.Fatalf("CompleteMatch on restored match: %v", err)
	}
	if got.Winner != want.Winner || got.ScoreA != want.ScoreA || got.ScoreB != want.ScoreB {
		t.Errorf("restored result = %s %d-%d, want %s %d-%d",
			got.Winner, got.ScoreA, got.ScoreB, want.Winner, want.ScoreA, want.ScoreB)
	}
	if got.Duration != want.Duration {
		t.Errorf("restored duration = %s, want %s", got.Duration, want.Duration)
	}
	if len(got.Games) != len(want.Games) {
		t.Errorf("restored history has %d card-games, want %d", len(got.Games), len(want.Games))
	}
}

func TestStateSurvivesJSON(t *testing.T) {
	// The export is a plain data tree, so a JSON round trip must not lose
	// anything the importer needs.
	c := midMatchCoordinator(t)
	exported := c.ExportState()

	raw, err := json.Marshal(exported)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded State
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := ImportState(decoded)
	if err != nil {
		t.Fatalf("ImportState after JSON: %v", err)
	}
	if got, want := restored.Snapshot(), c.Snapshot(); got != want {
		t.Errorf("snapshot after JSON round trip = %+v, want %+v", got, want)
	}
}

func TestImportStateRejectsCorruption(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{"unknown phase", func(st *State) { st.Phase = "halftime" }},
		{"game index out of range", func(st *State) { st.GameIndex = 7 }},
		{"missing start time", func(st *State) { st.StartedAt = State{}.StartedAt }},
		{"short hand", func(st *State) { st.Hands[0].Cards = st.Hands[0].Cards[:2] }},
		{"card breaks sum invariant", func(st *State) { st.Hands[0].Cards[0].Attack = 1 }},
		{"duplicate card in hand", func(st *State) { st.Hands[1].Cards[2] = st.Hands[1].Cards[0] }},
		{"history length mismatch", func(st *State) { st.History = nil }},
		{"tampered points", func(st *State) { st.History[0].Rounds[0].PointsA += 3 }},
		{"tampered value", func(st *State) { st.History[0].Rounds[0].ValA = 5 }},
		{"unknown round outcome", func(st *State) { st.History[0].Rounds[0].Outcome = "side_c" }},
		{"flipped round outcome", func(st *State) {
			r := &st.History[0].Rounds[0]
			if r.Outcome == OutcomeSideA {
				r.Outcome = OutcomeSideB
			} else {
				r.Outcome = OutcomeSideA
			}
		}},
		{"repeated property in history", func(st *State) {
			st.History[0].Rounds[1] = st.History[0].Rounds[0]
		}},
		{"wrong card-game winner", func(st *State) { st.History[0].Winner = OutcomeSideB }},
		{"machine missing", func(st *State) { st.Current = nil }},
		{"machine round count", func(st *State) { st.Current.Round = 3 }},
		{"used flags without games", func(st *State) { st.Hands[0].Used = []bool{true, true, true} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := midMatchCoordinator(t).ExportState()
			tt.mutate(&st)
			if _, err := ImportState(st); !errors.Is(err, ErrCorruptState) {
				t.Errorf("ImportState error = %v, want ErrCorruptState", err)
			}
		})
	}
}

func TestImportStateRejectsUnfinishedFullHistory(t *testing.T) {
	// A full history can only exist in game_over: completing the third
	// card-game never passes through card_complete. Accepting such a state
	// would restore a match that opens a fourth card-game with no cards left.
	st := finishedCoordinator(t).ExportState()
	st.Phase = PhaseCardComplete
	st.FinishedAt = nil

	if _, err := ImportState(st); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("ImportState error = %v, want ErrCorruptState", err)
	}
}

func TestImportStateRejectsPendingCardAbuse(t *testing.T) {
	c := newTestMatch(t)
	if err := c.SelectCard(SideA, 0); err != nil {
		t.Fatal(err)
	}
	st := c.ExportState()

	bad := st
	i := 9
	bad.PendingCards[SideA] = &i
	if _, err := ImportState(bad); !errors.Is(err, ErrCorruptState) {
		t.Errorf("out-of-range pending card error = %v, want ErrCorruptState", err)
	}

	bad = st
	j := 0
	bad.PendingCards[SideA] = &j
	bad.PendingCards[SideB] = &j
	if _, err := ImportState(bad); !errors.Is(err, ErrCorruptState) {
		t.Errorf("double pending cards error = %v, want ErrCorruptState", err)
	}
}
