package card

import (
	"errors"
	"strings"
	"testing"
)

func TestDominanceCycle(t *testing.T) {
	// The cycle must be total: every property beats exactly one other, loses
	// to exactly one other, and never dominates itself.
	for _, p := range AllProperties() {
		if p.Beats(p) {
			t.Errorf("%s beats itself", p)
		}
		var beats, losesTo []Property
		for _, q := range AllProperties() {
			if p == q {
				continue
			}
			if p.Beats(q) {
				beats = append(beats, q)
			}
			if p.LosesTo(q) {
				losesTo = append(losesTo, q)
			}
		}
		if len(beats) != 1 {
			t.Errorf("%s beats %v, want exactly one property", p, beats)
		}
		if len(losesTo) != 1 {
			t.Errorf("%s loses to %v, want exactly one property", p, losesTo)
		}
	}

	// Pin the chosen orientation explicitly.
	if !Attack.Beats(Magic) || !Magic.Beats(Deception) || !Deception.Beats(Attack) {
		t.Error("cycle orientation must be attack>magic>deception>attack")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		propA        Property
		valA         int
		propB        Property
		valB         int
		wantA, wantB int
	}{
		{"same property higher wins", Attack, 9, Attack, 7, 2, 0},
		{"same property lower loses", Magic, 3, Magic, 8, 0, 5},
		{"same property equal", Deception, 5, Deception, 5, 0, 0},
		{"dominant and higher", Attack, 8, Magic, 5, 3, 0},
		{"dominant but lower", Attack, 4, Magic, 5, 0, 0},
		{"dominant but equal", Magic, 6, Deception, 6, 0, 0},
		{"dominated side higher", Magic, 9, Attack, 2, 0, 0},
		{"reverse dominant and higher", Deception, 3, Magic, 8, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB, err := Score(tt.propA, tt.valA, tt.propB, tt.valB)
			if err != nil {
				t.Fatalf("Score returned error: %v", err)
			}
			if gotA != tt.wantA || gotB != tt.wantB {
				t.Errorf("Score(%s %d, %s %d) = (%d,%d), want (%d,%d)",
					tt.propA, tt.valA, tt.propB, tt.valB, gotA, gotB, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestScoreAntisymmetry(t *testing.T) {
	// Swapping the sides must swap the returned tuple, for every valid input.
	for _, pa := range AllProperties() {
		for _, pb := range AllProperties() {
			for va := MinStatValue; va <= MaxStatValue; va++ {
				for vb := MinStatValue; vb <= MaxStatValue; vb++ {
					a1, b1, err := Score(pa, va, pb, vb)
					if err != nil {
						t.Fatalf("Score(%s %d, %s %d): %v", pa, va, pb, vb, err)
					}
					b2, a2, err := Score(pb, vb, pa, va)
					if err != nil {
						t.Fatalf("Score(%s %d, %s %d): %v", pb, vb, pa, va, err)
					}
					if a1 != a2 || b1 != b2 {
						t.Fatalf("Score(%s %d, %s %d) = (%d,%d) but swapped = (%d,%d)",
							pa, va, pb, vb, a1, b1, a2, b2)
					}
				}
			}
		}
	}
}

func TestScoreScenario(t *testing.T) {
	// Card A 2/9/9 vs card B 5/8/7, played over two rounds.
	a, err := GetCard("2:9:9")
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetCard("5:8:7")
	if err != nil {
		t.Fatal(err)
	}

	// Round 1: both play attack, 9 vs 7.
	ptsA, ptsB, err := Score(Attack, int(a.Attack()), Attack, int(b.Attack()))
	if err != nil {
		t.Fatal(err)
	}
	if ptsA != 2 || ptsB != 0 {
		t.Errorf("round 1 = (%d,%d), want (2,0)", ptsA, ptsB)
	}

	// Round 2: A plays deception 2, B plays magic 8. Under this cycle magic
	// beats deception, and 8 > 2, so side B takes the difference.
	ptsA, ptsB, err = Score(Deception, int(a.Deception()), Magic, int(b.Magic()))
	if err != nil {
		t.Fatal(err)
	}
	if ptsA != 0 || ptsB != 6 {
		t.Errorf("round 2 = (%d,%d), want (0,6)", ptsA, ptsB)
	}
}

func TestScoreInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		propA Property
		valA  int
		propB Property
		valB  int
	}{
		{"unknown property", Property("sword"), 5, Attack, 5},
		{"value too low", Attack, 0, Magic, 5},
		{"value too high", Attack, 5, Magic, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Score(tt.propA, tt.valA, tt.propB, tt.valB); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Score error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	if got := Explain(Attack, 8, Magic, 5); !strings.Contains(got, "attack beats magic") {
		t.Errorf("Explain = %q, want dominance rationale", got)
	}
	if got := Explain(Attack, 4, Magic, 5); !strings.Contains(got, "no points") {
		t.Errorf("Explain = %q, want dead round rationale", got)
	}
	if got := Explain(Magic, 5, Magic, 5); !strings.Contains(got, "no points") {
		t.Errorf("Explain = %q, want tie rationale", got)
	}
}
