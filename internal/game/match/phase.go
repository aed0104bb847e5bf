package match

// Phase is the match coordinator's state for the current card-game slot.
type Phase string

const (
	PhaseCardSelection     Phase = "card_selection"
	PhasePropertySelection Phase = "property_selection"
	PhaseRoundResult       Phase = "round_result"
	PhaseCardComplete      Phase = "card_complete"
	PhaseGameOver          Phase = "game_over"
)

func (p Phase) isValid() bool {
	switch p {
	case PhaseCardSelection, PhasePropertySelection, PhaseRoundResult, PhaseCardComplete, PhaseGameOver:
		return true
	}
	return false
}

// Side identifies one of the two seats in a match.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "side A"
	}
	return "side B"
}

// Outcome classifies who took a round, a card-game or the match.
type Outcome string

const (
	OutcomeSideA Outcome = "side_a"
	OutcomeSideB Outcome = "side_b"
	OutcomeTie   Outcome = "tie"
)

func (o Outcome) isValid() bool {
	switch o {
	case OutcomeSideA, OutcomeSideB, OutcomeTie:
		return true
	}
	return false
}

func outcomeFor(pointsA, pointsB int) Outcome {
	switch {
	case pointsA > pointsB:
		return OutcomeSideA
	case pointsB > pointsA:
		return OutcomeSideB
	}
	return OutcomeTie
}
