package match

import (
	"errors"
	"testing"

	"triad/internal/game/card"
)

func mustCard(t *testing.T, key string) *card.Card {
	t.Helper()
	c, err := card.GetCard(key)
	if err != nil {
		t.Fatalf("GetCard(%s): %v", key, err)
	}
	return c
}

func newTestMachine(t *testing.T) *RoundMachine {
	t.Helper()
	m, err := NewRoundMachine(mustCard(t, "2:9:9"), mustCard(t, "5:8:7"))
	if err != nil {
		t.Fatalf("NewRoundMachine: %v", err)
	}
	return m
}

func TestRoundMachineResolvesWhenBothCommit(t *testing.T) {
	m := newTestMachine(t)

	if err := m.CommitProperty(SideA, card.Attack); err != nil {
		t.Fatalf("side A commit: %v", err)
	}
	if m.State() != RoundAwaitingSelections {
		t.Fatal("machine resolved with only one commitment")
	}
	if err := m.CommitProperty(SideB, card.Attack); err != nil {
		t.Fatalf("side B commit: %v", err)
	}
	if m.State() != RoundResolved {
		t.Fatal("machine did not resolve after both commitments")
	}

	rounds := m.Rounds()
	if len(rounds) != 1 {
		t.Fatalf("got %d rounds, want 1", len(rounds))
	}
	r := rounds[0]
	if r.PointsA != 2 || r.PointsB != 0 || r.Outcome != OutcomeSideA {
		t.Errorf("round = %+v, want side A winning 2-0", r)
	}
	if r.Rationale == "" {
		t.Error("round has no rationale")
	}
}

func TestRoundMachinePropertyReuse(t *testing.T) {
	m := newTestMachine(t)
	if err := m.CommitProperty(SideA, card.Attack); err != nil {
		t.Fatal(err)
	}
	if err := m.CommitProperty(SideB, card.Magic); err != nil {
		t.Fatal(err)
	}
	if err := m.Advance(); err != nil {
		t.Fatal(err)
	}

	before := m.AvailableProperties(SideA)
	err := m.CommitProperty(SideA, card.Attack)
	if !errors.Is(err, ErrPropertyReused) {
		t.Fatalf("reuse error = %v, want ErrPropertyReused", err)
	}
	// The failed commit must not touch any state.
	after := m.AvailableProperties(SideA)
	if len(before) != len(after) || m.HasCommitted(SideA) || m.RoundNumber() != 2 {
		t.Error("failed commit mutated machine state")
	}
}

func TestRoundMachineDoubleCommit(t *testing.T) {
	m := newTestMachine(t)
	if err := m.CommitProperty(SideA, card.Attack); err != nil {
		t.Fatal(err)
	}
	if err := m.CommitProperty(SideA, card.Magic); !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("second commit error = %v, want ErrPhaseViolation", err)
	}
}

func TestRoundMachineCommitAfterResolve(t *testing.T) {
	m := newTestMachine(t)
	if err := m.CommitProperty(SideA, card.Attack); err != nil {
		t.Fatal(err)
	}
	if err := m.CommitProperty(SideB, card.Attack); err != nil {
		t.Fatal(err)
	}
	if err := m.CommitProperty(SideA, card.Magic); !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("commit on resolved round error = %v, want ErrPhaseViolation", err)
	}
}

func TestRoundMachineInvalidProperty(t *testing.T) {
	m := newTestMachine(t)
	if err := m.CommitProperty(SideA, card.Property("sword")); !errors.Is(err, card.ErrInvalidInput) {
		t.Errorf("invalid property error = %v, want ErrInvalidInput", err)
	}
}

func TestRoundMachineAdvance(t *testing.T) {
	m := newTestMachine(t)
	if err := m.Advance(); !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("advance before resolution error = %v, want ErrPhaseViolation", err)
	}

	playRound := func(a, b card.Property) {
		t.Helper()
		if err := m.CommitProperty(SideA, a); err != nil {
			t.Fatal(err)
		}
		if err := m.CommitProperty(SideB, b); err != nil {
			t.Fatal(err)
		}
	}

	playRound(card.Attack, card.Attack)
	if err := m.Advance(); err != nil {
		t.Fatalf("advance to round 2: %v", err)
	}
	playRound(card.Deception, card.Magic)
	if err := m.Advance(); err != nil {
		t.Fatalf("advance to round 3: %v", err)
	}
	playRound(card.Magic, card.Deception)

	if !m.AllRoundsComplete() {
		t.Fatal("three resolved rounds but AllRoundsComplete is false")
	}
	if err := m.Advance(); !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("advance past final round error = %v, want ErrPhaseViolation", err)
	}
}

func TestRoundMachineAutoPlayFinal(t *testing.T) {
	m := newTestMachine(t)

	if err := m.AutoPlayFinal(); !errors.Is(err, ErrPhaseViolation) {
		t.Errorf("auto-play on round 1 error = %v, want ErrPhaseViolation", err)
	}

	steps := [][2]card.Property{
		{card.Attack, card.Attack},
		{card.Deception, card.Magic},
	}
	for _, s := range steps {
		if err := m.CommitProperty(SideA, s[0]); err != nil {
			t.Fatal(err)
		}
		if err := m.CommitProperty(SideB, s[1]); err != nil {
			t.Fatal(err)
		}
		if err := m.Advance(); err != nil {
			t.Fatal(err)
		}
	}

	// Round 3: exactly one property left on each side.
	if p, ok := m.OnlyOneLeft(SideA); !ok || p != card.Magic {
		t.Fatalf("OnlyOneLeft(SideA) = %v, %t, want magic", p, ok)
	}
	if p, ok := m.OnlyOneLeft(SideB); !ok || p != card.Deception {
		t.Fatalf("OnlyOneLeft(SideB) = %v, %t, want deception", p, ok)
	}
	if err := m.AutoPlayFinal(); err != nil {
		t.Fatalf("AutoPlayFinal: %v", err)
	}
	if !m.AllRoundsComplete() {
		t.Fatal("auto-play did not resolve the final round")
	}
	last := m.Rounds()[2]
	// A magic 9 vs B deception 5: magic dominates and wins by 4.
	if last.PropA != card.Magic || last.PropB != card.Deception || last.PointsA != 4 || last.PointsB != 0 {
		t.Errorf("auto-played round = %+v, want magic 9 beating deception 5", last)
	}
}
