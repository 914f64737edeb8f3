package game

import "iter"

// MinValue and MaxValue bound every heuristic value and search score.
const (
	MinValue int8 = -64
	MaxValue int8 = 64
)

// State is an immutable game configuration. Play never mutates the
// receiver. CurrentPlayer false is the maximizing side.
type State interface {
	CurrentPlayer() bool
	// Movements yields legal moves in natural order; the sequence can be
	// iterated any number of times.
	Movements() iter.Seq[Movement]
	// MovementsSorted yields the same moves, best child value for the
	// mover first, ties kept in natural order.
	MovementsSorted() iter.Seq[Movement]
	MovementsRandom() iter.Seq[Movement]
	// MovementsValuable yields the moves in an order meant for spreading
	// work across parallel workers.
	MovementsValuable() iter.Seq[Movement]
	Play(m Movement) State
	Value() int8
	GameOver() bool
}

// HasMovements reports whether s has at least one legal move.
func HasMovements(s State) bool {
	for range s.Movements() {
		return true
	}
	return false
}

// IsLegal reports whether m is one of the legal moves of s.
func IsLegal(s State, m Movement) bool {
	for legal := range s.Movements() {
		if legal == m {
			return true
		}
	}
	return false
}

type Outcome int

const (
	OutcomeSecondWins Outcome = -1
	OutcomeDraw       Outcome = 0
	OutcomeFirstWins  Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFirstWins:
		return "first player wins"
	case OutcomeSecondWins:
		return "second player wins"
	default:
		return "draw"
	}
}
