package match

import "triad/internal/game/card"

// perfectRoundMargin is the widest win a round can produce (9 beats 1).
const perfectRoundMargin = card.MaxStatValue - card.MinStatValue

// BonusConfig holds the optional bonus magnitudes layered on top of raw round
// points. The zero value is the default ruleset: plain score summation.
type BonusConfig struct {
	// WinStreak is awarded for every consecutive card-game win after the first.
	WinStreak int `json:"winStreak"`
	// PerfectRound is awarded for winning a round by the maximum possible margin.
	PerfectRound int `json:"perfectRound"`
	// Comeback is awarded for winning a card-game while trailing overall.
	Comeback int `json:"comeback"`
}

func DefaultBonusConfig() BonusConfig { return BonusConfig{} }

// SideStats is the running bookkeeping for one seat. Purely additive; nothing
// here feeds back into gameplay decisions.
type SideStats struct {
	Points      int `json:"points"`
	BonusPoints int `json:"bonusPoints"`

	RoundWins   int `json:"roundWins"`
	RoundLosses int `json:"roundLosses"`
	RoundTies   int `json:"roundTies"`

	GameWins   int `json:"gameWins"`
	GameLosses int `json:"gameLosses"`
	GameTies   int `json:"gameTies"`

	HighestRound  int `json:"highestRound"`
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
	Comebacks     int `json:"comebacks"`
}

// Total is the side's effective score: raw points plus earned bonuses.
func (s SideStats) Total() int { return s.Points + s.BonusPoints }

// RoundAverage is the side's mean points per recorded round.
func (s SideStats) RoundAverage() float64 {
	rounds := s.RoundWins + s.RoundLosses + s.RoundTies
	if rounds == 0 {
		return 0
	}
	return float64(s.Points) / float64(rounds)
}

// Aggregator accumulates scores and derived statistics across a match.
type Aggregator struct {
	bonuses BonusConfig
	stats   [2]SideStats

	// Totals frozen at the start of the current card-game, for comeback
	// detection.
	totalsAtGameStart [2]int
}

func NewAggregator(bonuses BonusConfig) *Aggregator {
	return &Aggregator{bonuses: bonuses}
}

func (a *Aggregator) Bonuses() BonusConfig { return a.bonuses }

func (a *Aggregator) Stats(side Side) SideStats { return a.stats[side] }

func (a *Aggregator) Score(side Side) int { return a.stats[side].Total() }

// BeginCardGame freezes the current totals so the card-game's winner can be
// checked for a comeback when it completes.
func (a *Aggregator) BeginCardGame() {
	a.totalsAtGameStart[SideA] = a.stats[SideA].Total()
	a.totalsAtGameStart[SideB] = a.stats[SideB].Total()
}

// RecordRound folds one resolved round into the running totals.
func (a *Aggregator) RecordRound(r Round) {
	a.stats[SideA].Points += r.PointsA
	a.stats[SideB].Points += r.PointsB

	if r.PointsA > a.stats[SideA].HighestRound {
		a.stats[SideA].HighestRound = r.PointsA
	}
	if r.PointsB > a.stats[SideB].HighestRound {
		a.stats[SideB].HighestRound = r.PointsB
	}

	switch r.Outcome {
	case OutcomeSideA:
		a.stats[SideA].RoundWins++
		a.stats[SideB].RoundLosses++
		if r.PointsA == perfectRoundMargin {
			a.stats[SideA].BonusPoints += a.bonuses.PerfectRound
		}
	case OutcomeSideB:
		a.stats[SideB].RoundWins++
		a.stats[SideA].RoundLosses++
		if r.PointsB == perfectRoundMargin {
			a.stats[SideB].BonusPoints += a.bonuses.PerfectRound
		}
	default:
		a.stats[SideA].RoundTies++
		a.stats[SideB].RoundTies++
	}
}

// RecordCardGame folds a completed card-game into the game-level statistics:
// win counts, streaks and comeback detection.
func (a *Aggregator) RecordCardGame(outcome Outcome) {
	switch outcome {
	case OutcomeSideA:
		a.recordGameWin(SideA)
	case OutcomeSideB:
		a.recordGameWin(SideB)
	default:
		a.stats[SideA].GameTies++
		a.stats[SideB].GameTies++
		a.stats[SideA].CurrentStreak = 0
		a.stats[SideB].CurrentStreak = 0
	}
}

func (a *Aggregator) recordGameWin(winner Side) {
	loser := winner.Opponent()
	a.stats[winner].GameWins++
	a.stats[loser].GameLosses++

	a.stats[winner].CurrentStreak++
	a.stats[loser].CurrentStreak = 0
	if a.stats[winner].CurrentStreak > a.stats[winner].BestStreak {
		a.stats[winner].BestStreak = a.stats[winner].CurrentStreak
	}
	if a.stats[winner].CurrentStreak > 1 {
		a.stats[winner].BonusPoints += a.bonuses.WinStreak
	}

	if a.totalsAtGameStart[winner] < a.totalsAtGameStart[loser] {
		a.stats[winner].Comebacks++
		a.stats[winner].BonusPoints += a.bonuses.Comeback
	}
}
