package strategy

import "blobwar/internal/domain/game"

// Greedy plays the move whose resulting position has the best immediate
// value. Among equal values the last one enumerated wins.
type Greedy struct{}

func (Greedy) String() string {
	return "Greedy"
}

func (Greedy) ComputeNextMove(state game.State) *game.Movement {
	maximizer := !state.CurrentPlayer()

	var (
		best      *game.Movement
		bestValue int8
	)
	for m := range state.Movements() {
		v := state.Play(m).Value()
		if best == nil || (maximizer && v >= bestValue) || (!maximizer && v <= bestValue) {
			best, bestValue = &m, v
		}
	}
	return best
}
